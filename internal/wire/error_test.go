package wire

import (
	"encoding/json"
	"testing"
	"time"
)

func TestProgramErrorUnitVariantsSerializeAsBareStrings(t *testing.T) {
	for _, kind := range []ProgramErrorKind{KindInternalError, KindNoData, KindNoInitError} {
		e := ProgramError{Kind: kind}
		b, err := json.Marshal(e)
		if err != nil {
			t.Fatalf("Marshal(%s): %v", kind, err)
		}
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			t.Fatalf("%s did not serialize as a bare string: %s (%v)", kind, b, err)
		}
		if s != string(kind) {
			t.Fatalf("serialized as %q, want %q", s, kind)
		}
	}
}

func TestProgramErrorDataVariantsSerializeAsSingleKeyObject(t *testing.T) {
	cases := []ProgramError{
		{Kind: KindInitError, Init: &Error{Summary: "bad init"}},
		{Kind: KindDataError, Data: "malformed json"},
		{Kind: KindIO, IO: "broken pipe"},
		{Kind: KindTimeout, Timeout: 2 * time.Second},
	}
	for _, want := range cases {
		b, err := json.Marshal(want)
		if err != nil {
			t.Fatalf("Marshal(%+v): %v", want, err)
		}
		var m map[string]json.RawMessage
		if err := json.Unmarshal(b, &m); err != nil {
			t.Fatalf("%s did not serialize as an object: %s", want.Kind, b)
		}
		if len(m) != 1 {
			t.Fatalf("expected exactly one key, got %d: %s", len(m), b)
		}
		if _, ok := m[string(want.Kind)]; !ok {
			t.Fatalf("expected key %q, got %s", want.Kind, b)
		}

		var got ProgramError
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("Unmarshal(%s): %v", b, err)
		}
		if got.Kind != want.Kind {
			t.Fatalf("round trip kind mismatch: got %s, want %s", got.Kind, want.Kind)
		}
	}
}

func TestProgramErrorTimeoutRoundTripsSeconds(t *testing.T) {
	want := ProgramError{Kind: KindTimeout, Timeout: 1500 * time.Millisecond}
	b, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got ProgramError
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Timeout != want.Timeout {
		t.Fatalf("Timeout round trip = %v, want %v", got.Timeout, want.Timeout)
	}
}

func TestProgramErrorUnmarshalRejectsMultiKeyObject(t *testing.T) {
	var e ProgramError
	err := json.Unmarshal([]byte(`{"IO":"a","DataError":"b"}`), &e)
	if err == nil {
		t.Fatal("expected an error for a multi-key program error object")
	}
}

func TestLineColArrayShape(t *testing.T) {
	withCol := LineCol{Line: 3, Col: 4, HasCol: true}
	b, err := json.Marshal(withCol)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != "[3,4]" {
		t.Fatalf("LineCol with column = %s, want [3,4]", b)
	}

	withoutCol := LineCol{Line: 5}
	b, err = json.Marshal(withoutCol)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != "[5]" {
		t.Fatalf("LineCol without column = %s, want [5]", b)
	}

	var got LineCol
	if err := json.Unmarshal([]byte("[3,4]"), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != withCol {
		t.Fatalf("round trip = %+v, want %+v", got, withCol)
	}
}

func TestErrorErrorStringIncludesDetails(t *testing.T) {
	details := "unexpected token"
	e := Error{Summary: "parse failure", Details: &details}
	if got := e.Error(); got != "parse failure: unexpected token" {
		t.Fatalf("Error() = %q", got)
	}
}
