package runtime

import (
	"fmt"
	"math"

	"github.com/aretw0/optionsbot/internal/numfmt"
	"github.com/aretw0/optionsbot/pkg/domain"
)

// longTermMonths is the holding period after which gains are taxed at the long-term rate.
const longTermMonths = 12

// Lot is one exercise recorded in the purchase history.
type Lot struct {
	Month float64
	Count float64
	// Basis is the fair market value per share at exercise.
	Basis float64
}

// Memory is the ledger of a single simulation trial.
// It is owned by exactly one trial and must not be shared.
type Memory struct {
	sampler   Sampler
	variables map[string]float64

	totalGrant      float64
	cliff           float64
	immediatelyVest float64
	monthlyVest     float64
	strikePrice     float64

	currentMonth       float64
	fairMarketValue    float64
	totalShares        float64
	purchased          float64
	totalSpread        float64
	noOptionsAvailable bool
	quit               bool
	history            []Lot
	exitShare          float64
	events             []domain.Event

	profit    float64
	setUp     bool
	finalized bool
}

// NewMemory creates an empty ledger drawing randomness from s.
func NewMemory(s Sampler) *Memory {
	return &Memory{
		sampler:            s,
		variables:          make(map[string]float64),
		noOptionsAvailable: true,
	}
}

// SetValue registers a header variable.
func (m *Memory) SetValue(name string, value float64) {
	m.variables[name] = value
}

// Value returns a header variable.
func (m *Memory) Value(name string) (float64, bool) {
	v, ok := m.variables[name]
	return v, ok
}

func (m *Memory) value(name string) float64 {
	return m.variables[name]
}

// FinishSetup checks the required variables, copies the grant into the ledger
// and applies the randomized start delay. It may run only once.
func (m *Memory) FinishSetup() error {
	if m.setUp {
		return domain.ErrDoubleSetup
	}
	m.setUp = true

	for _, name := range domain.RequiredVariables {
		if _, ok := m.variables[name]; !ok {
			return &domain.MissingVariableError{Name: name}
		}
	}

	m.strikePrice = m.value(domain.VarStrikePrice)
	m.totalGrant = m.value(domain.VarTotalGrant)
	m.cliff = m.value(domain.VarStartVestingMonths)
	m.immediatelyVest = m.value(domain.VarImmediatelyVest)
	m.monthlyVest = m.value(domain.VarMonthlyVest)
	m.noOptionsAvailable = false

	m.fairMarketValue = m.value(domain.VarStartFMV)
	m.totalShares = m.value(domain.VarStartTotalShares)

	m.Delay(Sample(
		m.sampler,
		m.value(domain.VarStartMonthLow),
		m.value(domain.VarStartMonthHigh),
		true,
		m.value(domain.VarRangeStd),
		false,
	))
	return nil
}

// AddEvent appends a log entry stamped with the current month.
func (m *Memory) AddEvent(text string) {
	m.events = append(m.events, domain.Event{Month: m.currentMonth, Text: text})
}

// Events returns a copy of the event log.
func (m *Memory) Events() []domain.Event {
	return append([]domain.Event(nil), m.events...)
}

// Delay advances the clock. Negative delays are ignored.
func (m *Memory) Delay(months float64) {
	m.currentMonth += nonNegative(months)
}

// SetFairMarketValue updates the per-share FMV used for spread taxes.
func (m *Memory) SetFairMarketValue(v float64) {
	m.fairMarketValue = nonNegative(v)
}

// SetExitShare fixes the per-share exit price. It also becomes the FMV.
func (m *Memory) SetExitShare(v float64) {
	v = nonNegative(v)
	m.exitShare = v
	m.SetFairMarketValue(v)
}

// SetExitValue converts a whole-company valuation into a per-share exit price.
func (m *Memory) SetExitValue(v float64) {
	v = nonNegative(v)
	if m.totalShares <= 0 {
		m.SetExitShare(0)
		return
	}
	m.SetExitShare(v / m.totalShares)
}

// Dilute grows the share count; 0.1 means 10% dilution.
func (m *Memory) Dilute(dilution float64) {
	m.totalShares *= 1 + nonNegative(dilution)
}

// Quit records the employee leaving. Remaining options are forfeited.
// Calling it again has no effect.
func (m *Memory) Quit() {
	if m.quit {
		return
	}
	m.quit = true
	m.ClearRemainingOptions()
	m.AddEvent("Left job.")
}

// ClearRemainingOptions stops vesting and makes unexercised options unavailable.
func (m *Memory) ClearRemainingOptions() {
	m.noOptionsAvailable = true
}

// OptionsAvailable returns vested options not yet exercised.
func (m *Memory) OptionsAvailable() float64 {
	if m.currentMonth < m.cliff || m.noOptionsAvailable {
		return 0
	}

	vested := m.immediatelyVest + m.monthlyVest*(m.currentMonth-m.cliff)
	if vested > m.totalGrant {
		vested = m.totalGrant
	}
	return vested - m.purchased
}

// BuyOptions exercises up to requested options at the current FMV.
// The request is rounded to a whole number and capped at what is available.
func (m *Memory) BuyOptions(requested float64) {
	available := m.OptionsAvailable()

	count := math.Round(nonNegative(requested))
	if count > available {
		count = available
	}
	count = nonNegative(count)

	spreadPerOption := m.fairMarketValue - m.strikePrice
	m.totalSpread += nonNegative(count * spreadPerOption)
	m.purchased += count

	if count > 0 {
		m.AddEvent(fmt.Sprintf("Bought %s with spread %s each.",
			numfmt.Format(count), numfmt.Cents(spreadPerOption)))
		m.history = append(m.history, Lot{
			Month: m.currentMonth,
			Count: count,
			Basis: m.fairMarketValue,
		})
	}
}

// Finalize computes taxes and proceeds. It may run only once.
func (m *Memory) Finalize() error {
	if m.finalized {
		return domain.ErrDoubleFinalize
	}
	if !m.setUp {
		return domain.ErrNotSetUp
	}
	m.finalized = true

	if len(m.history) == 0 {
		m.profit = 0
		return nil
	}

	spreadTax := m.totalSpread * m.value(domain.VarOptionTax) / 100

	if m.value(domain.VarWaitToSell) > 0.5 {
		last := m.history[len(m.history)-1]
		if wait := longTermMonths - (m.currentMonth - last.Month); wait > 0 {
			m.AddEvent("Wait to sell for long term gains tax.")
			m.Delay(wait)
		}
	}

	var regular, longTerm, totalCount float64
	for _, lot := range m.history {
		gain := nonNegative(lot.Count * (m.exitShare - lot.Basis))
		if m.currentMonth-lot.Month < longTermMonths {
			regular += gain
		} else {
			longTerm += gain
		}
		totalCount += lot.Count
	}

	totalSale := totalCount * m.exitShare
	taxesRegular := regular * m.value(domain.VarRegularIncomeTax) / 100
	taxesLongTerm := longTerm * m.value(domain.VarLongTermTax) / 100
	totalTaxes := taxesRegular + taxesLongTerm + spreadTax
	strikePaid := m.purchased * m.value(domain.VarStrikePrice)

	m.AddEvent(fmt.Sprintf("Sold %s at %s with taxes of %s after tax on spread of %s for shares costing %s",
		numfmt.Format(math.Round(totalCount)),
		numfmt.Cents(totalSale),
		numfmt.Cents(taxesRegular+taxesLongTerm),
		numfmt.Cents(spreadTax),
		numfmt.Cents(strikePaid),
	))

	m.profit = totalSale - totalTaxes - strikePaid
	return nil
}

// Result returns the immutable outcome of a finalized trial.
func (m *Memory) Result() (domain.SimulationResult, error) {
	if !m.finalized {
		return domain.SimulationResult{}, domain.ErrResultBeforeFinalize
	}
	return domain.SimulationResult{
		Months: m.currentMonth,
		Profit: m.profit,
		Events: m.Events(),
	}, nil
}

// Month returns the current clock.
func (m *Memory) Month() float64 { return m.currentMonth }

// FairMarketValue returns the current per-share FMV.
func (m *Memory) FairMarketValue() float64 { return m.fairMarketValue }

// TotalShares returns the current outstanding share count.
func (m *Memory) TotalShares() float64 { return m.totalShares }

// Purchased returns how many options have been exercised.
func (m *Memory) Purchased() float64 { return m.purchased }

// ExitShare returns the per-share exit price.
func (m *Memory) ExitShare() float64 { return m.exitShare }

// History returns a copy of the purchase lots.
func (m *Memory) History() []Lot {
	return append([]Lot(nil), m.history...)
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
