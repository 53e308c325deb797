package document

import (
	"errors"
	"testing"
)

func TestValidateAcceptsWellFormedDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "test_ok.yml", `
name: valid
variables:
  user: alice
stages:
  - request: /health
  - name: login
    request:
      url: /login
      method: POST
      json:
        user: "{user}"
    assert:
      - response.status == 200
    register:
      token: response.body.token
  - include: shared.yml
`)

	if err := ValidateFile(path); err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}
}

func TestValidateRejectsMissingName(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "test_bad.yml", `
stages:
  - request: /x
`)

	err := ValidateFile(path)
	var de *DocumentError
	if !errors.As(err, &de) {
		t.Fatalf("expected DocumentError, got %v", err)
	}
}

func TestValidateRejectsUnknownStageField(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "test_extra.yml", `
name: extra field
stages:
  - request: /x
    asserts:
      - response.status == 200
`)

	err := ValidateFile(path)
	var de *DocumentError
	if !errors.As(err, &de) {
		t.Fatalf("expected DocumentError, got %v", err)
	}
}

func TestValidateEveryLoadableDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "test_both.yml", `
name: loadable
stages:
  - request:
      - /a
      - url: /b
        method: DELETE
`)

	if _, err := LoadFile(path); err != nil {
		t.Fatalf("loader rejected document: %v", err)
	}
	if err := ValidateFile(path); err != nil {
		t.Fatalf("validator rejected loadable document: %v", err)
	}
}
