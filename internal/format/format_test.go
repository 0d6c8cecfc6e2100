package format

import (
	"bytes"
	"testing"
)

func TestJSONFormatter(t *testing.T) {
	payload := map[string]string{"name": "a<b>"}

	var compact bytes.Buffer
	if err := (JSONFormatter{}).Write(&compact, payload); err != nil {
		t.Fatalf("write: %v", err)
	}
	if compact.String() != "{\"name\":\"a<b>\"}\n" {
		t.Fatalf("unexpected compact output %q", compact.String())
	}

	var indented bytes.Buffer
	if err := (JSONFormatter{Indent: "  "}).Write(&indented, payload); err != nil {
		t.Fatalf("write: %v", err)
	}
	if indented.String() != "{\n  \"name\": \"a<b>\"\n}\n" {
		t.Fatalf("unexpected indented output %q", indented.String())
	}
}
