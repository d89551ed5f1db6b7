package cachepolicy

import (
	"testing"
	"time"

	"github.com/any-hub/cache-demo/internal/resource"
)

var sampleModTime = time.Date(2024, 3, 1, 8, 30, 15, 0, time.UTC)

func sampleResource(content string) *resource.Resource {
	return &resource.Resource{
		Name:         "image/sample.jpg",
		Content:      []byte(content),
		LastModified: sampleModTime,
	}
}

func TestEvaluateNilResourceIsNotFound(t *testing.T) {
	strategies := []Strategy{NoCache(), RelativeMaxAge(5 * time.Second), LastModifiedValidation(), ETagValidation()}
	for _, s := range strategies {
		d := Evaluate(nil, Validators{IfNoneMatch: "x", IfModifiedSince: "y"}, s)
		if d.Status != StatusNotFound {
			t.Fatalf("%s: expected not found, got %s", s.Kind, d.Status)
		}
		if d.HasBody() || len(d.Header) != 0 {
			t.Fatalf("%s: not found must carry neither body nor headers", s.Kind)
		}
	}
}

func TestEvaluateNoCacheMarksNoStore(t *testing.T) {
	d := Evaluate(sampleResource("<html>"), Validators{}, NoCache())
	if d.Status != StatusFresh {
		t.Fatalf("expected fresh, got %s", d.Status)
	}
	if got := d.Get(HeaderCacheControl); got != "no-store" {
		t.Fatalf("expected no-store, got %q", got)
	}
}

func TestEvaluateAbsoluteExpiryIgnoresValidators(t *testing.T) {
	at := time.Date(2030, 12, 21, 23, 59, 59, 0, time.UTC)
	res := sampleResource("png")
	cases := []Validators{
		{},
		{IfModifiedSince: FormatHTTPDate(sampleModTime)},
		{IfNoneMatch: ETag(res.Content)},
	}
	for _, v := range cases {
		d := Evaluate(res, v, AbsoluteExpiry(at))
		if d.Status != StatusFresh {
			t.Fatalf("expires should always be fresh, got %s", d.Status)
		}
		if got := d.Get(HeaderExpires); got != "Sat, 21 Dec 2030 23:59:59 GMT" {
			t.Fatalf("unexpected Expires header: %q", got)
		}
	}
}

func TestEvaluateAbsoluteExpiryFormatsInGMT(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	at := time.Date(2030, 12, 22, 7, 59, 59, 0, shanghai)
	d := Evaluate(sampleResource("png"), Validators{}, AbsoluteExpiry(at))
	if got := d.Get(HeaderExpires); got != "Sat, 21 Dec 2030 23:59:59 GMT" {
		t.Fatalf("Expires should be rendered in GMT, got %q", got)
	}
}

func TestEvaluateRelativeMaxAge(t *testing.T) {
	res := sampleResource("jpg")
	for _, v := range []Validators{{}, {IfNoneMatch: ETag(res.Content)}} {
		d := Evaluate(res, v, RelativeMaxAge(5*time.Second))
		if d.Status != StatusFresh {
			t.Fatalf("max-age should always be fresh, got %s", d.Status)
		}
		if got := d.Get(HeaderCacheControl); got != "max-age=5" {
			t.Fatalf("expected max-age=5 verbatim, got %q", got)
		}
	}
}

func TestEvaluateLastModified(t *testing.T) {
	res := sampleResource("jpg")
	formatted := FormatHTTPDate(sampleModTime)

	testCases := []struct {
		name   string
		header string
		want   Status
	}{
		{"missing header", "", StatusFresh},
		{"exact match", formatted, StatusNotModified},
		{"older date", FormatHTTPDate(sampleModTime.Add(-time.Second)), StatusFresh},
		{"newer date", FormatHTTPDate(sampleModTime.Add(time.Second)), StatusFresh},
		{"case differs", "fri, 01 mar 2024 08:30:15 gmt", StatusFresh},
		{"equivalent but different format", sampleModTime.Format(time.RFC3339), StatusFresh},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := Evaluate(res, Validators{IfModifiedSince: tc.header}, LastModifiedValidation())
			if d.Status != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, d.Status)
			}
			switch d.Status {
			case StatusNotModified:
				if d.HasBody() || len(d.Header) != 0 {
					t.Fatalf("304 must not carry body or validator headers")
				}
			case StatusFresh:
				if got := d.Get(HeaderLastModified); got != formatted {
					t.Fatalf("expected Last-Modified %q, got %q", formatted, got)
				}
				if got := d.Get(HeaderCacheControl); got != "no-cache" {
					t.Fatalf("expected no-cache, got %q", got)
				}
			}
		})
	}
}

func TestEvaluateLastModifiedIgnoresSubSecondEdits(t *testing.T) {
	res := sampleResource("jpg")
	header := FormatHTTPDate(res.LastModified)
	res.LastModified = res.LastModified.Add(400 * time.Millisecond)

	d := Evaluate(res, Validators{IfModifiedSince: header}, LastModifiedValidation())
	if d.Status != StatusNotModified {
		t.Fatalf("second granularity should hide sub-second edits, got %s", d.Status)
	}
}

func TestEvaluateETag(t *testing.T) {
	res := sampleResource("jpg-bytes")
	tag := ETag(res.Content)

	testCases := []struct {
		name   string
		header string
		want   Status
	}{
		{"missing header", "", StatusFresh},
		{"exact match", tag, StatusNotModified},
		{"weak form", "W/" + tag, StatusFresh},
		{"unquoted", tag[1 : len(tag)-1], StatusFresh},
		{"list", tag + `, "other"`, StatusFresh},
		{"wildcard", "*", StatusFresh},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := Evaluate(res, Validators{IfNoneMatch: tc.header}, ETagValidation())
			if d.Status != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, d.Status)
			}
			if d.Status == StatusFresh {
				if got := d.Get(HeaderETag); got != tag {
					t.Fatalf("expected ETag %q, got %q", tag, got)
				}
				if got := d.Get(HeaderCacheControl); got != "no-cache" {
					t.Fatalf("expected no-cache, got %q", got)
				}
			} else if len(d.Header) != 0 {
				t.Fatalf("304 must not carry headers")
			}
		})
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	res := sampleResource("body")
	for _, s := range []Strategy{NoCache(), RelativeMaxAge(5 * time.Second), LastModifiedValidation(), ETagValidation()} {
		first := Evaluate(res, Validators{}, s)
		second := Evaluate(res, Validators{}, s)
		if first.Status != second.Status || len(first.Header) != len(second.Header) {
			t.Fatalf("%s: decisions differ", s.Kind)
		}
		for i := range first.Header {
			if first.Header[i] != second.Header[i] {
				t.Fatalf("%s: header %d differs: %v vs %v", s.Kind, i, first.Header[i], second.Header[i])
			}
		}
	}
}

func TestStatusHTTPStatus(t *testing.T) {
	if StatusFresh.HTTPStatus() != 200 || StatusNotModified.HTTPStatus() != 304 || StatusNotFound.HTTPStatus() != 404 {
		t.Fatalf("unexpected status mapping")
	}
}
