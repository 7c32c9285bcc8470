// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ionisation

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/periodic-table/pkg/types"
)

const dataPage = `<html><body>
<table class="infobox"><tr><th>1st</th></tr><tr><td>99</td><td>1</td></tr></table>
<table class="wikitable">
  <tr><th>number</th><th>symbol</th><th>name</th><th>1st</th><th>2nd</th><th>3rd</th></tr>
  <tr><td>1</td><td>H</td><td>hydrogen</td><td>1312.0</td><td></td><td></td></tr>
  <tr><td>2</td><td>He</td><td>helium</td><td>2372.3</td><td>5250.5</td><td></td></tr>
  <tr><td>3</td><td>Li</td><td>lithium</td><td>520.2</td><td>7298.1</td><td>11,815.0<sup>[a]</sup></td></tr>
  <tr><td>3</td><td>Li</td><td>lithium</td><td>999</td><td></td><td></td></tr>
  <tr><td colspan="3">Notes</td></tr>
</table>
<table class="wikitable">
  <tr><th>number</th><th>symbol</th><th>name</th><th>4th</th><th>5th</th></tr>
  <tr><td>6</td><td>C</td><td>carbon</td><td>6222.7</td><td>(37 831)</td></tr>
  <tr><td>7</td><td>N</td><td>nitrogen</td><td>&#8212;</td><td>9444.9</td></tr>
</table>
</body></html>`

func TestParse(t *testing.T) {
	got, err := Parse(strings.NewReader(dataPage))
	require.NoError(t, err)

	want := []types.IonisationEnergy{
		{AtomicNumber: 1, IonisationNumber: 1, Energy: 1312.0},
		{AtomicNumber: 2, IonisationNumber: 1, Energy: 2372.3},
		{AtomicNumber: 2, IonisationNumber: 2, Energy: 5250.5},
		{AtomicNumber: 3, IonisationNumber: 1, Energy: 520.2},
		{AtomicNumber: 3, IonisationNumber: 2, Energy: 7298.1},
		{AtomicNumber: 3, IonisationNumber: 3, Energy: 11815.0},
		{AtomicNumber: 6, IonisationNumber: 4, Energy: 6222.7},
		{AtomicNumber: 6, IonisationNumber: 5, Energy: 37831},
		{AtomicNumber: 7, IonisationNumber: 5, Energy: 9444.9},
	}
	assert.Equal(t, want, got)
}

func TestParseNoTables(t *testing.T) {
	got, err := Parse(strings.NewReader("<html><body><p>nothing</p></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/html", r.Header.Get("Accept"))
		fmt.Fprint(w, dataPage)
	}))
	defer ts.Close()

	got, err := Fetch(context.Background(), ts.Client(), ts.URL, types.HTTPConfig{})
	require.NoError(t, err)
	assert.Len(t, got, 9)
}

func TestFetchError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	_, err := Fetch(context.Background(), ts.Client(), ts.URL, types.HTTPConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
}

func TestWriteLoad(t *testing.T) {
	dir := t.TempDir()
	in := []types.IonisationEnergy{{AtomicNumber: 1, IonisationNumber: 1, Energy: 1312}}

	path, err := Write(dir, in)
	require.NoError(t, err)

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
