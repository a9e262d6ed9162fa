package services

import (
	"reflect"
	"testing"
)

func TestExtract_KnownVector(t *testing.T) {
	extractor := NewFeatureExtractor()

	got := extractor.Extract("https://www.example.com/login?user=1")

	want := []float64{
		36, // url_length
		2,  // dot_count
		0,  // at_count
		0,  // has_ip
		1,  // subdomain_count
		0,  // hyphen_count
		0,  // underscore_count
		3,  // slash_count
		1,  // question_count
		1,  // equals_count
		1,  // is_https
		15, // hostname_length
		1,  // digit_count
		27, // letter_count
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract vector mismatch\ngot:  %v\nwant: %v", got, want)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	extractor := NewFeatureExtractor()

	url := "http://paypal-verify.tk/confirm?id=42"
	first := extractor.Extract(url)
	second := extractor.Extract(url)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Extract not deterministic:\n%v\n%v", first, second)
	}
}

func TestExtract_IPFlag(t *testing.T) {
	extractor := NewFeatureExtractor()

	vec := extractor.Extract("http://192.168.1.1/")
	names := extractor.FeatureNames()

	idx := -1
	for i, n := range names {
		if n == "has_ip" {
			idx = i
		}
	}
	if idx == -1 {
		t.Fatal("has_ip missing from feature names")
	}
	if vec[idx] != 1 {
		t.Errorf("has_ip = %f, want 1", vec[idx])
	}
}

func TestFeatureNames_Order(t *testing.T) {
	extractor := NewFeatureExtractor()

	names := extractor.FeatureNames()
	if len(names) != 14 {
		t.Fatalf("feature count = %d, want 14", len(names))
	}
	if names[0] != "url_length" || names[13] != "letter_count" {
		t.Errorf("unexpected feature order: %v", names)
	}

	vec := extractor.Extract("https://example.com")
	if len(vec) != len(names) {
		t.Errorf("vector length %d != name count %d", len(vec), len(names))
	}

	// Callers must not be able to corrupt the contract.
	names[0] = "mutated"
	if extractor.FeatureNames()[0] != "url_length" {
		t.Error("FeatureNames must return a copy")
	}
}
