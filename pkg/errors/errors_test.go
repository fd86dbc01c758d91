package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("insert failed")
	err := Wrap(CodeDependency, cause, "create credential")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code: %s", err.Code())
	}
}

func TestAsFindsTypedError(t *testing.T) {
	inner := New(CodeConflict, "handle already taken")
	wrapped := fmt.Errorf("provision: %w", inner)

	typed := As(wrapped)
	if typed == nil || typed.Code() != CodeConflict {
		t.Fatalf("expected conflict error, got %v", typed)
	}
}

func TestCorrelationID(t *testing.T) {
	err := New(CodeCompensation, "orphaned identity").WithCorrelationID("")
	if err.CorrelationID() == "" {
		t.Fatal("expected generated correlation id")
	}
	if !strings.Contains(err.Error(), err.CorrelationID()) {
		t.Fatalf("error text should carry the reference: %s", err.Error())
	}

	stamped := New(CodeCompensation, "orphaned identity").WithCorrelationID("ref-42")
	if stamped.CorrelationID() != "ref-42" {
		t.Fatalf("explicit correlation id lost: %s", stamped.CorrelationID())
	}
}

func TestMetadataFor(t *testing.T) {
	if MetadataFor(CodeCompensation).HTTPStatus != http.StatusInternalServerError {
		t.Fatal("compensation failures must surface as 500s")
	}
	if MetadataFor(Code("bogus")).HTTPStatus != http.StatusInternalServerError {
		t.Fatal("unknown codes fall back to internal")
	}
	if MetadataFor(CodeDependency).Retryable != true {
		t.Fatal("dependency errors are retryable")
	}
}

func TestDumpIncludesChainAndCorrelation(t *testing.T) {
	cause := stdErrors.New("connection reset")
	err := Wrap(CodeDependency, cause, "append ledger entry").WithCorrelationID("ref-7")

	dump := Dump(err)
	if dump.Code != CodeDependency || dump.CorrelationID != "ref-7" {
		t.Fatalf("unexpected dump: %+v", dump)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", dump.Chain)
	}
}
