package structure

import (
	"context"
	"fmt"

	"github.com/thomasaiwilcox/strictswift/internal/lint"
	"github.com/thomasaiwilcox/strictswift/internal/source"
)

// AfferentCouplingRule flags types referenced by an excessive number of
// other symbols. A high-afferent type is a change amplifier: touching it
// ripples through every dependent.
type AfferentCouplingRule struct{}

// NewAfferentCouplingRule creates the high afferent coupling rule.
func NewAfferentCouplingRule() *AfferentCouplingRule {
	return &AfferentCouplingRule{}
}

func (r *AfferentCouplingRule) ID() string                     { return "high_afferent_coupling" }
func (r *AfferentCouplingRule) Name() string                   { return "High Afferent Coupling" }
func (r *AfferentCouplingRule) Category() lint.Category        { return lint.CategoryStructure }
func (r *AfferentCouplingRule) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (r *AfferentCouplingRule) EnabledByDefault() bool         { return true }

func (r *AfferentCouplingRule) ShouldAnalyze(file *source.SourceFile) bool { return true }

func (r *AfferentCouplingRule) Analyze(ctx context.Context, file *source.SourceFile, actx *lint.Context) ([]lint.Violation, error) {
	threshold := actx.Config.For(r.ID(), file.Path).Int("max_afferent", 15)

	var out []lint.Violation
	for _, sym := range file.TypeSymbols() {
		afferent := actx.Graph.Afferent(sym.ID)
		if afferent <= threshold {
			continue
		}
		out = append(out, lint.NewViolation(r.ID(), r.Category(), sym.Location).
			Message(fmt.Sprintf("type %s is referenced by %d symbols (limit %d); consider splitting its responsibilities", sym.Name, afferent, threshold)).
			Severity(r.DefaultSeverity()).
			Context("afferent", afferent).
			Context("efferent", actx.Graph.Efferent(sym.ID)).
			Context("instability", actx.Graph.Instability(sym.ID)).
			Context("threshold", threshold).
			Build())
	}
	return out, nil
}

// EfferentCouplingRule flags types that depend on an excessive number of
// other types.
type EfferentCouplingRule struct{}

// NewEfferentCouplingRule creates the high efferent coupling rule.
func NewEfferentCouplingRule() *EfferentCouplingRule {
	return &EfferentCouplingRule{}
}

func (r *EfferentCouplingRule) ID() string                     { return "high_efferent_coupling" }
func (r *EfferentCouplingRule) Name() string                   { return "High Efferent Coupling" }
func (r *EfferentCouplingRule) Category() lint.Category        { return lint.CategoryStructure }
func (r *EfferentCouplingRule) DefaultSeverity() lint.Severity { return lint.SeverityWarning }
func (r *EfferentCouplingRule) EnabledByDefault() bool         { return true }

func (r *EfferentCouplingRule) ShouldAnalyze(file *source.SourceFile) bool { return true }

func (r *EfferentCouplingRule) Analyze(ctx context.Context, file *source.SourceFile, actx *lint.Context) ([]lint.Violation, error) {
	threshold := actx.Config.For(r.ID(), file.Path).Int("max_efferent", 20)

	var out []lint.Violation
	for _, sym := range file.TypeSymbols() {
		efferent := actx.Graph.Efferent(sym.ID)
		if efferent <= threshold {
			continue
		}
		out = append(out, lint.NewViolation(r.ID(), r.Category(), sym.Location).
			Message(fmt.Sprintf("type %s depends on %d other symbols (limit %d); it likely does too much", sym.Name, efferent, threshold)).
			Severity(r.DefaultSeverity()).
			Context("afferent", actx.Graph.Afferent(sym.ID)).
			Context("efferent", efferent).
			Context("instability", actx.Graph.Instability(sym.ID)).
			Context("threshold", threshold).
			Build())
	}
	return out, nil
}
