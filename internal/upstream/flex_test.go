package upstream

import (
	"encoding/json"
	"testing"
)

func TestFlexNumberUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{`8`, 8},
		{`7.5`, 7.5},
		{`"12"`, 12},
		{`"7,5"`, 7.5},
		{`"R$ 1.234,56"`, 1234.56},
		{`""`, 0},
		{`null`, 0},
		{`"sem valor"`, 0},
	}
	for _, tc := range tests {
		var f FlexNumber
		if err := json.Unmarshal([]byte(tc.in), &f); err != nil {
			t.Errorf("unmarshal %s: %v", tc.in, err)
			continue
		}
		if got := f.Float(); got != tc.want {
			t.Errorf("FlexNumber(%s).Float() = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFlexNumberMarshalRoundTrip(t *testing.T) {
	var f FlexNumber
	if err := json.Unmarshal([]byte(`"R$ 90,00"`), &f); err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `"R$ 90,00"` {
		t.Errorf("marshal = %s", out)
	}
}
