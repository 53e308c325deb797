package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadShortForm(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "test_basic.yml", `
name: basic
stages:
  - request: https://example.com/health
    assert:
      - response.status == 200
`)

	cases, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cases) != 1 {
		t.Fatalf("expected 1 case, got %d", len(cases))
	}

	tc := cases[0]
	if tc.Name != "basic" {
		t.Errorf("name = %q", tc.Name)
	}
	if len(tc.Stages) != 1 {
		t.Fatalf("expected 1 stage, got %d", len(tc.Stages))
	}

	st := tc.Stages[0]
	if st.Request.URL != "https://example.com/health" {
		t.Errorf("url = %q", st.Request.URL)
	}
	if st.Request.Method != "GET" {
		t.Errorf("short form method = %q, want GET", st.Request.Method)
	}
	if st.Name != "stage 1" {
		t.Errorf("positional name = %q", st.Name)
	}
}

func TestLoadLongFormPassthrough(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "test_long.yml", `
name: long form
stages:
  - name: create user
    request:
      url: /users
      method: post
      headers:
        X-Token: "{token}"
      json:
        login: alice
    register:
      user_id: response.body.id
      user_url: response.headers.Location
`)

	cases, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	st := cases[0].Stages[0]
	if st.Request.Method != "POST" {
		t.Errorf("method = %q, want POST", st.Request.Method)
	}
	if _, ok := st.Request.Options["headers"]; !ok {
		t.Error("headers option not passed through")
	}
	if _, ok := st.Request.Options["json"]; !ok {
		t.Error("json option not passed through")
	}
	if _, ok := st.Request.Options["url"]; ok {
		t.Error("url leaked into options")
	}

	// Register order must match document order.
	want := []string{"user_id", "user_url"}
	if len(st.Registers) != len(want) {
		t.Fatalf("registers = %d, want %d", len(st.Registers), len(want))
	}
	for i, name := range want {
		if st.Registers[i].Name != name {
			t.Errorf("register %d = %q, want %q", i, st.Registers[i].Name, name)
		}
	}
}

func TestLoadMissingName(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "test_noname.yml", `
stages:
  - request: https://example.com/
`)

	_, err := LoadFile(path)
	var de *DocumentError
	if !errors.As(err, &de) {
		t.Fatalf("expected DocumentError, got %v", err)
	}
}

func TestLoadMissingStages(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "test_nostages.yml", "name: empty\n")

	_, err := LoadFile(path)
	var de *DocumentError
	if !errors.As(err, &de) {
		t.Fatalf("expected DocumentError, got %v", err)
	}
}

func TestLoadMissingRequest(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "test_noreq.yml", `
name: broken
stages:
  - name: no request here
    assert:
      - true
`)

	_, err := LoadFile(path)
	var de *DocumentError
	if !errors.As(err, &de) {
		t.Fatalf("expected DocumentError, got %v", err)
	}
}

func TestIncludeSplicedInOrder(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "shared.yml", `
- name: B
  request: /b
- name: C
  request: /c
`)
	path := writeDoc(t, dir, "test_inc.yml", `
name: with include
stages:
  - name: A
    request: /a
  - include: shared.yml
  - name: D
    request: /d
`)

	cases, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, st := range cases[0].Stages {
		got = append(got, st.Name)
	}
	want := []string{"A", "B", "C", "D"}
	if len(got) != len(want) {
		t.Fatalf("stages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stage %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIncludeRelativeToIncludingDocument(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "shared")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeDoc(t, sub, "inner.yml", `
- name: inner
  request: /inner
`)
	writeDoc(t, sub, "outer.yml", `
- include: inner.yml
`)
	path := writeDoc(t, dir, "test_nested.yml", `
name: nested includes
stages:
  - include: shared/outer.yml
`)

	cases, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cases[0].Stages) != 1 || cases[0].Stages[0].Name != "inner" {
		t.Fatalf("nested include not resolved: %+v", cases[0].Stages)
	}
}

func TestIncludeCycleDetected(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.yml", "- include: b.yml\n")
	writeDoc(t, dir, "b.yml", "- include: a.yml\n")
	path := writeDoc(t, dir, "test_cycle.yml", `
name: cyclic
stages:
  - include: a.yml
`)

	_, err := LoadFile(path)
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CycleError, got %v", err)
	}
}

func TestIncludeMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "test_missing.yml", `
name: missing include
stages:
  - include: nowhere.yml
`)

	_, err := LoadFile(path)
	var ie *IncludeError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IncludeError, got %v", err)
	}
}

func TestDiamondIncludeAllowed(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "leaf.yml", "- request: /leaf\n")
	path := writeDoc(t, dir, "test_diamond.yml", `
name: diamond
stages:
  - include: leaf.yml
  - include: leaf.yml
`)

	cases, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cases[0].Stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(cases[0].Stages))
	}
}

func TestMultiDocumentStream(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "test_multi.yml", `
name: first
stages:
  - request: /one
---
name: second
stages:
  - request: /two
`)

	cases, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(cases))
	}
	if cases[0].Name != "first" || cases[1].Name != "second" {
		t.Errorf("cases = %q, %q", cases[0].Name, cases[1].Name)
	}
}

func TestAnchorMergeResolvedBeforeNormalization(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "test_anchor.yml", `
name: anchors
variables:
  base: &base
    method: POST
stages:
  - request:
      <<: *base
      url: /submit
`)

	cases, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	st := cases[0].Stages[0]
	if st.Request.Method != "POST" {
		t.Errorf("merged method = %q, want POST", st.Request.Method)
	}
	if st.Request.URL != "/submit" {
		t.Errorf("url = %q", st.Request.URL)
	}
}
