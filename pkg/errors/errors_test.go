package errors

import (
	"strings"
	"testing"
)

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("StandardScaler", "Transform")

	var nf *NotFittedError
	if !As(err, &nf) {
		t.Fatalf("As() failed for %T", err)
	}
	if nf.ModelName != "StandardScaler" || nf.Method != "Transform" {
		t.Errorf("fields = %q/%q, want StandardScaler/Transform", nf.ModelName, nf.Method)
	}
	if !strings.Contains(err.Error(), "not fitted") {
		t.Errorf("message %q does not mention the unfitted state", err.Error())
	}
}

func TestDimensionErrorAxisNames(t *testing.T) {
	tests := []struct {
		name string
		axis int
		want string
	}{
		{name: "rows", axis: 0, want: "rows"},
		{name: "features", axis: 1, want: "features"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDimensionError("Scaler.Transform", 3, 5, tt.axis)
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("message %q does not name axis %q", err.Error(), tt.want)
			}
		})
	}
}

func TestUnknownCategoryError(t *testing.T) {
	err := NewUnknownCategoryError("OneHotEncoder.Transform", "city", "atlantis")

	var uc *UnknownCategoryError
	if !As(err, &uc) {
		t.Fatalf("As() failed for %T", err)
	}
	if uc.Column != "city" || uc.Category != "atlantis" {
		t.Errorf("fields = %q/%q, want city/atlantis", uc.Column, uc.Category)
	}
}

func TestModelErrorUnwrap(t *testing.T) {
	err := NewModelError("Imputer.Fit", "empty data", ErrEmptyData)
	if !Is(err, ErrEmptyData) {
		t.Error("Is() did not find the wrapped sentinel")
	}
}

func TestWarnHandler(t *testing.T) {
	var got error
	SetWarningHandler(func(w error) { got = w })
	defer SetWarningHandler(func(w error) {})

	w := NewUndefinedMetricWarning("precision", "no predicted positives", 0)
	Warn(w)

	if got == nil {
		t.Fatal("handler not invoked")
	}
	var um *UndefinedMetricWarning
	if !As(got, &um) {
		t.Fatalf("warning type = %T, want *UndefinedMetricWarning", got)
	}
}

func TestZerologSinkTakesPriority(t *testing.T) {
	handlerCalled := false
	sinkCalled := false
	SetWarningHandler(func(w error) { handlerCalled = true })
	SetZerologWarnFunc(func(w error) { sinkCalled = true })
	defer func() {
		SetZerologWarnFunc(nil)
		SetWarningHandler(func(w error) {})
	}()

	Warn(New("test warning"))

	if !sinkCalled {
		t.Error("zerolog sink not invoked")
	}
	if handlerCalled {
		t.Error("plain handler invoked despite zerolog sink")
	}
}

func TestWrapPreservesType(t *testing.T) {
	base := NewValueError("MSE", "empty vector")
	wrapped := Wrap(base, "evaluating fold 3")

	var ve *ValueError
	if !As(wrapped, &ve) {
		t.Error("As() lost the ValueError through Wrap")
	}
	if !strings.Contains(wrapped.Error(), "fold 3") {
		t.Errorf("message %q lost the wrap context", wrapped.Error())
	}
}
