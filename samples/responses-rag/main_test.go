// Copyright (c) Microsoft. All rights reserved.

package main

import (
	"errors"
	"io"
	"strings"
	"testing"
)

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestReadQuestion(t *testing.T) {
	errBroken := errors.New("stdin closed")
	tests := []struct {
		name    string
		in      io.Reader
		want    string
		wantErr error
	}{
		{name: "line", in: strings.NewReader("  refund policy?  \nignored\n"), want: "refund policy?"},
		{name: "no newline before EOF", in: strings.NewReader("coverage limits"), want: "coverage limits"},
		{name: "blank uses default", in: strings.NewReader("\n"), want: defaultQuestion},
		{name: "EOF uses default", in: strings.NewReader(""), want: defaultQuestion},
		{name: "read error", in: failingReader{err: errBroken}, wantErr: errBroken},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := readQuestion(tc.in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("readQuestion: %v", err)
			}
			if got != tc.want {
				t.Errorf("question = %q, want %q", got, tc.want)
			}
		})
	}
}
