// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import "testing"

func TestEncodeQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{"empty", nil, ""},
		{"sorted keys", Params{"num": 10, "page": 2, "lat": 35.5}, "lat=35.5&num=10&page=2"},
		{"space as %20", Params{"q": "x y"}, "q=x%20y"},
		{"reserved characters escaped", Params{"tag_names": "a,b&c"}, "tag_names=a%2Cb%26c"},
		{"key escaped", Params{"a b": "1"}, "a%20b=1"},
		{"string slice", Params{"ids": []string{"b", "a"}}, "ids[]=b&ids[]=a"},
		{"any slice", Params{"v": []any{1, true}}, "v[]=1&v[]=true"},
		{
			"nested string map sorted",
			Params{"custom_data": map[string]string{"z": "1", "k": "v&w"}},
			"custom_data[k]=v%26w&custom_data[z]=1",
		},
		{
			"deep nesting",
			Params{"outer": Params{"inner": map[string]any{"deep": true}}},
			"outer[inner][deep]=true",
		},
		{"int64 and bool", Params{"amount": int64(3), "recent_created": true}, "amount=3&recent_created=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := encodeQuery(tt.params); got != tt.want {
				t.Errorf("encodeQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParams_SetSkipsEmpty(t *testing.T) {
	t.Parallel()

	p := Params{}
	p.set("a", "")
	p.setInt("b", 0)
	p.setInt("c", -1)
	if len(p) != 0 {
		t.Errorf("empty values were stored: %v", p)
	}

	p.set("a", "x").setInt("b", 1)
	if p["a"] != "x" || p["b"] != 1 {
		t.Errorf("params = %v", p)
	}
}
