package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewInvalidConfigurationError(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		reason  string
		value   interface{}
		wantMsg string
	}{
		{
			name:    "trees below one",
			param:   "trees",
			reason:  "must be at least 1",
			value:   0,
			wantMsg: "sciforest: invalid configuration for 'trees': must be at least 1 (got: 0)",
		},
		{
			name:    "non positive gain",
			param:   "minimumInformationGain",
			reason:  "must be larger than 0",
			value:   -0.5,
			wantMsg: "sciforest: invalid configuration for 'minimumInformationGain': must be larger than 0 (got: -0.5)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewInvalidConfigurationError(tt.param, tt.reason, tt.value)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var cfgErr *InvalidConfigurationError
			if !As(err, &cfgErr) {
				t.Fatal("Error should be castable to *InvalidConfigurationError")
			}
			if cfgErr.Param != tt.param {
				t.Errorf("Param = %s, want %s", cfgErr.Param, tt.param)
			}
		})
	}
}

func TestNewInvalidTreeConstraintError(t *testing.T) {
	err := NewInvalidTreeConstraintError("featuresPrSplit", "5 exceeds 4 available features")

	want := "sciforest: tree constraint 'featuresPrSplit' violated: 5 exceeds 4 available features"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var treeErr *InvalidTreeConstraintError
	if !As(err, &treeErr) {
		t.Error("Error should be castable to *InvalidTreeConstraintError")
	}
}

func TestNewConcurrencyFailureError(t *testing.T) {
	cause := NewPanicError("buildTree", "boom")
	err := NewConcurrencyFailureError("Learn", cause)

	if !strings.Contains(err.Error(), "worker terminated abnormally") {
		t.Errorf("unexpected message: %s", err.Error())
	}

	var cfErr *ConcurrencyFailureError
	if !As(err, &cfErr) {
		t.Fatal("Error should be castable to *ConcurrencyFailureError")
	}

	// 原因のPanicErrorまで辿れること
	var panicErr *PanicError
	if !As(err, &panicErr) {
		t.Fatal("Error chain should contain *PanicError")
	}
	if panicErr.PanicValue != "boom" {
		t.Errorf("PanicValue = %v, want boom", panicErr.PanicValue)
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Learn", 10, 9, 0)

	want := "sciforest: Learn: dimension mismatch on axis 0 (rows). Expected 10, got 9"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("DecisionTreeClassifier", "Predict")

	want := "sciforest: DecisionTreeClassifier: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewValueError(t *testing.T) {
	err := NewValueError("LearnIndices", "indices must not be empty")

	want := "sciforest: LearnIndices: indices must not be empty"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValueError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValueError")
	}
}

func TestMarshalZerologObject(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	cfgErr := &InvalidConfigurationError{Param: "trees", Reason: "must be at least 1", Value: 0}
	logger.Error().Object("error", cfgErr).Msg("construction failed")

	out := buf.String()
	for _, want := range []string{`"param_name":"trees"`, `"type":"InvalidConfigurationError"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrEmptyData, "in ClassificationForestModel.Predict")

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	if !strings.Contains(wrapped.Error(), "in ClassificationForestModel.Predict") {
		t.Error("Expected wrapped error to contain wrapping message")
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Predict", 10, 5)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "in Predict: expected 10, got 5"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestWarnUsesZerologFunc(t *testing.T) {
	var got error
	SetZerologWarnFunc(func(w error) { got = w })
	defer SetZerologWarnFunc(nil)

	w := New("featuresPrSplit clamped to 1")
	Warn(w)

	if got != w {
		t.Errorf("zerolog warn func not called with warning, got %v", got)
	}
}
