package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/optionsbot/pkg/adapters/memory"
	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/aretw0/optionsbot/pkg/ports/tests"
)

func TestLibrary_Contract(t *testing.T) {
	sources := map[string]string{
		"fail-fast": "[]{c_1: fail()}",
		"unicorn":   "[]{c_1: ipo(100 - 200 share)}",
	}
	tests.ScenarioLibraryContractTest(t, memory.NewLibraryFromSources(sources), sources)
}

func TestNewLibrary_RequiresName(t *testing.T) {
	_, err := memory.NewLibrary(domain.Scenario{Source: "[]{}"})
	assert.Error(t, err)

	lib, err := memory.NewLibrary(domain.Scenario{Name: "a", Title: "A", Source: "[]{}"})
	assert.NoError(t, err)
	assert.NotNil(t, lib)
}
