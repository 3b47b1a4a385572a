package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// growStump stands in for a tree build that indexes a leaf table.
func growStump(leaves []float64, leaf int) float64 {
	return leaves[leaf]
}

func TestRecover_TreeBuildPanic(t *testing.T) {
	build := func() (err error) {
		defer Recover(&err, "tree.LearnModel")
		panic("no candidate features for split")
	}

	err := build()
	if err == nil {
		t.Fatal("expected an error from the recovered tree build")
	}

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("expected PanicError, got %T", err)
	}
	if panicErr.Operation != "tree.LearnModel" {
		t.Errorf("operation = %q, want tree.LearnModel", panicErr.Operation)
	}
	if panicErr.PanicValue != "no candidate features for split" {
		t.Errorf("panic value = %v", panicErr.PanicValue)
	}
	if !strings.Contains(panicErr.StackTrace, "TestRecover_TreeBuildPanic") {
		t.Error("stack trace should name the panicking test")
	}
	if got, want := panicErr.Error(), "panic in tree.LearnModel: no candidate features for split"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestRecover_TreeBuildWithoutPanic(t *testing.T) {
	build := func() (err error) {
		defer Recover(&err, "tree.LearnModel")
		return nil
	}

	if err := build(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecover_PanicAfterSplitError(t *testing.T) {
	splitErr := NewInvalidTreeConstraintError("split", "no valid split")

	build := func() (err error) {
		defer Recover(&err, "tree.LearnModel")
		err = splitErr
		panic("node table corrupted")
	}

	err := build()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "panic in tree.LearnModel") {
		t.Errorf("message should describe the panic: %s", err)
	}
	var treeErr *InvalidTreeConstraintError
	if !errors.As(err, &treeErr) {
		t.Error("the split error should stay reachable through errors.As")
	}
}

func TestSafeExecute_TreeBuild(t *testing.T) {
	splitErr := NewInvalidTreeConstraintError("split", "no valid split")

	tests := []struct {
		name      string
		fn        func() error
		wantErr   error
		wantPanic interface{}
	}{
		{
			name: "tree built",
			fn:   func() error { return nil },
		},
		{
			name:    "inducer error passes through",
			fn:      func() error { return splitErr },
			wantErr: splitErr,
		},
		{
			name:      "inducer panic",
			fn:        func() error { panic("leaf probabilities missing") },
			wantPanic: "leaf probabilities missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SafeExecute("parallel.Drain", tt.fn)

			switch {
			case tt.wantPanic != nil:
				var panicErr *PanicError
				if !errors.As(err, &panicErr) {
					t.Fatalf("expected PanicError, got %T", err)
				}
				if panicErr.PanicValue != tt.wantPanic {
					t.Errorf("panic value = %v, want %v", panicErr.PanicValue, tt.wantPanic)
				}
			case tt.wantErr != nil:
				if err != tt.wantErr {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
			default:
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestSafeExecute_RuntimeErrorInTreeBuild(t *testing.T) {
	err := SafeExecute("tree.LearnModel", func() error {
		growStump([]float64{0.5}, 3)
		return nil
	})

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("expected PanicError, got %T", err)
	}
	var runtimeErr interface{ RuntimeError() }
	if !errors.As(err, &runtimeErr) {
		t.Error("an index panic should unwrap to the runtime error")
	}
}

func TestPanicError_WrappedAsConcurrencyFailure(t *testing.T) {
	panicErr := NewPanicError("parallel.Drain", "worker 2 crashed")
	err := NewConcurrencyFailureError("LearnIndices", panicErr)

	var cfErr *ConcurrencyFailureError
	if !errors.As(err, &cfErr) {
		t.Fatalf("expected ConcurrencyFailureError, got %T", err)
	}
	var got *PanicError
	if !errors.As(err, &got) {
		t.Fatal("the panic should stay reachable through the concurrency failure")
	}
	if got.PanicValue != "worker 2 crashed" {
		t.Errorf("panic value = %v", got.PanicValue)
	}

	detail := got.String()
	if !strings.Contains(detail, "Stack trace:") || !strings.Contains(detail, "worker 2 crashed") {
		t.Errorf("String() should carry the message and stack trace: %s", detail)
	}
}

func TestPanicError_Unwrap(t *testing.T) {
	if NewPanicError("tree.LearnModel", "bad split").Unwrap() != nil {
		t.Error("a string panic value should not unwrap")
	}

	cause := fmt.Errorf("threshold is NaN")
	if !errors.Is(NewPanicError("tree.LearnModel", cause), cause) {
		t.Error("an error panic value should unwrap")
	}
}

func TestRecover_PanicValueTypes(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"string", "empty bootstrap sample", "empty bootstrap sample"},
		{"int", 7, "7"},
		{"error", fmt.Errorf("feature 3 out of range"), "feature 3 out of range"},
		{"nil", nil, "panic called with nil argument"},
		{"struct", struct{ Tree int }{4}, "{4}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			build := func() (err error) {
				defer Recover(&err, "tree.LearnModel")
				panic(tt.value)
			}

			var panicErr *PanicError
			if !errors.As(build(), &panicErr) {
				t.Fatal("expected PanicError")
			}
			if got := fmt.Sprintf("%v", panicErr.PanicValue); !strings.HasPrefix(got, tt.want) {
				t.Errorf("panic value = %q, want prefix %q", got, tt.want)
			}
		})
	}
}

func BenchmarkSafeExecute_TreeBuild(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = SafeExecute("tree.LearnModel", func() error {
			return nil
		})
	}
}
