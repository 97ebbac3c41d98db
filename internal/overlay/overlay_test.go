package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/web3guy0/algodash/internal/model"
)

func f(v float64) *float64 { return &v }

func TestDeriveSupportLevelsWinOverScalar(t *testing.T) {
	assertion := assert.New(t)

	ind := model.Indicators{
		SupportLevels: []model.SRLevel{
			{Level: 100, Strength: 30, Touches: 3},
			{Level: 90, Strength: 15, Touches: 1},
		},
	}
	lines := Derive(ind)
	assertion.Len(lines, 2)
	assertion.Equal(100.0, lines[0].Value)
	assertion.Equal(SupportPrimary, lines[0].Role)
	assertion.Equal("S1", lines[0].Label)
	assertion.Equal(90.0, lines[1].Value)
	assertion.Equal(SupportSecondary, lines[1].Role)
	assertion.Equal("S2", lines[1].Label)
}

func TestDeriveScalarFallback(t *testing.T) {
	assertion := assert.New(t)

	lines := Derive(model.Indicators{Support: f(95), Resistance: f(110)})
	assertion.Len(lines, 2)
	assertion.Equal(SupportPrimary, lines[0].Role)
	assertion.Equal("Support", lines[0].Label)
	assertion.Equal(ResistancePrimary, lines[1].Role)
	assertion.Equal("Resistance", lines[1].Label)
}

func TestDeriveAbsentValuesEmitNothing(t *testing.T) {
	assertion := assert.New(t)

	assertion.Empty(Derive(model.Indicators{}))
}

func TestDeriveCurrentPriceAlwaysLast(t *testing.T) {
	assertion := assert.New(t)

	ind := model.Indicators{
		SupportLevels:    []model.SRLevel{{Level: 100}},
		ResistanceLevels: []model.SRLevel{{Level: 120}, {Level: 125}},
		CurrentPrice:     f(110),
	}
	lines := Derive(ind)
	assertion.Len(lines, 4)
	last := lines[len(lines)-1]
	assertion.Equal(CurrentPrice, last.Role)
	assertion.Equal(110.0, last.Value)
	assertion.Equal(len(lines)-1, last.Rank)
}

func TestDeriveRanksFollowEmissionOrder(t *testing.T) {
	assertion := assert.New(t)

	ind := model.Indicators{
		SupportLevels:    []model.SRLevel{{Level: 100}, {Level: 90}},
		ResistanceLevels: []model.SRLevel{{Level: 120}},
		CurrentPrice:     f(105),
	}
	for i, ln := range Derive(ind) {
		assertion.Equal(i, ln.Rank)
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	assertion := assert.New(t)

	ind := model.Indicators{
		Support:          f(95),
		ResistanceLevels: []model.SRLevel{{Level: 120}, {Level: 130}},
		CurrentPrice:     f(100),
	}
	assertion.Equal(Derive(ind), Derive(ind))
}

func TestDeriveZeroValuedLevelStillEmits(t *testing.T) {
	assertion := assert.New(t)

	// A present value of zero is a real level; only absence suppresses the
	// line.
	lines := Derive(model.Indicators{Support: f(0)})
	assertion.Len(lines, 1)
	assertion.Equal(0.0, lines[0].Value)
}
