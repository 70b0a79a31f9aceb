package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestPredicatesMatchTheirCode(t *testing.T) {
	notFound := New("Test", NotFound, "no such record")
	transient := New("Test", Transient, "origin unreachable")
	config := New("Test", Configuration, "database_host is required")

	if !IsNotFound(notFound) || IsTransient(notFound) {
		t.Error("NotFound error misclassified")
	}
	if !IsTransient(transient) || IsNotFound(transient) {
		t.Error("Transient error misclassified")
	}
	if !IsConfiguration(config) || IsTransient(config) {
		t.Error("Configuration error misclassified")
	}
}

func TestPredicatesOnForeignAndNilErrors(t *testing.T) {
	if IsNotFound(nil) || IsTransient(nil) || IsConfiguration(nil) {
		t.Error("nil matched a taxonomy code")
	}

	plain := errors.New("plain")
	if IsNotFound(plain) || IsTransient(plain) || IsConfiguration(plain) {
		t.Error("a plain error matched a taxonomy code")
	}
}

func TestWrapPreservesTheCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap("GetConnection", Transient, cause)

	if !IsTransient(err) {
		t.Error("wrapped error lost its code")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error lost its cause")
	}
}

func TestCodeSurvivesFurtherWrapping(t *testing.T) {
	inner := New("LookupProfile", NotFound, "no such profile")
	outer := fmt.Errorf("reading alice: %w", inner)

	if !IsNotFound(outer) {
		t.Error("code not found through an fmt.Errorf wrapper")
	}
}
