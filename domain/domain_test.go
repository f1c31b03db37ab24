package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestWarningString(t *testing.T) {
	w := Warning{
		Code:    WarnMissingExport,
		Message: "nope is not exported",
		Loc:     &SourceLocation{File: "a.js", Line: 3, Column: 7},
	}
	s := w.String()
	if !strings.Contains(s, "MISSING_EXPORT") || !strings.Contains(s, "a.js:3:7") {
		t.Errorf("Unexpected warning rendering: %s", s)
	}

	w = Warning{Code: WarnCircularDependency, Message: "cycle", Plugin: "my-plugin"}
	if !strings.Contains(w.String(), "plugin my-plugin") {
		t.Errorf("Expected plugin name in rendering: %s", w.String())
	}
}

func TestBuildErrorRendering(t *testing.T) {
	inner := errors.New("io failure")
	err := &BuildError{
		Code:    ErrLoadFailed,
		Message: "could not load a.js",
		Plugin:  "fs-loader",
		Err:     inner,
	}
	if !errors.Is(err, inner) {
		t.Error("Expected BuildError to unwrap its cause")
	}
	s := err.Error()
	if !strings.Contains(s, "LOAD_FAILED") || !strings.Contains(s, "fs-loader") {
		t.Errorf("Unexpected error rendering: %s", s)
	}
}

func TestModuleSideEffectsPolicy(t *testing.T) {
	blanketOn := ModuleSideEffectsPolicy{Value: true}
	if !blanketOn.HasSideEffects("a.js", false) || !blanketOn.HasSideEffects("lib", true) {
		t.Error("Expected blanket-on policy to keep all side effects")
	}

	noExternal := ModuleSideEffectsPolicy{NoExternal: true}
	if !noExternal.HasSideEffects("a.js", false) {
		t.Error("Expected internal modules effectful under no-external")
	}
	if noExternal.HasSideEffects("lib", true) {
		t.Error("Expected external modules pure under no-external")
	}

	predicate := ModuleSideEffectsPolicy{Fn: func(id string, external bool) bool {
		return strings.HasSuffix(id, ".effect.js")
	}}
	if !predicate.HasSideEffects("boot.effect.js", false) {
		t.Error("Expected predicate to keep matching modules")
	}
	if predicate.HasSideEffects("pure.js", false) {
		t.Error("Expected predicate to drop non-matching modules")
	}
}

func TestDefaultTreeshakeOptions(t *testing.T) {
	opts := DefaultTreeshakeOptions()
	if !opts.Enabled || !opts.Annotations || !opts.TryCatchDeoptimization {
		t.Errorf("Unexpected defaults: %+v", opts)
	}
	if !opts.ModuleSideEffects.HasSideEffects("any.js", false) {
		t.Error("Expected side effects kept by default")
	}
}
