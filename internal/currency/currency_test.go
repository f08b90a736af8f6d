package currency

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "shekel symbol", input: "₪", want: "ILS"},
		{name: "NIS alias", input: "NIS", want: "ILS"},
		{name: "dollar symbol", input: "$", want: "USD"},
		{name: "euro symbol", input: "€", want: "EUR"},
		{name: "iso code passes through", input: "ILS", want: "ILS"},
		{name: "lowercase iso code", input: "usd", want: "USD"},
		{name: "whitespace trimmed", input: " EUR ", want: "EUR"},
		{name: "unknown passes through upper-cased", input: "points", want: "POINTS"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
