/*
Package ports defines the driven ports (interfaces) of optionsbot.

These interfaces decouple simulation from storage, so reports and scenarios can
live in memory, in Redis or in a directory of markdown files.

# Key Interfaces

  - ReportStore: Persists Monte Carlo reports by ID.
  - DistributedLocker: Provides distributed locking around report writes.
  - ScenarioLibrary: Lists and loads named programs.
*/
package ports
