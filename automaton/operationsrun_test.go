package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	digits, err := defaultAutomata.MakeCharRange('0', '9')
	assert.Nil(t, err)
	number, err := Repeat(digits)
	assert.Nil(t, err)
	number, err = Determinize(number, DEFAULT_DETERMINIZE_WORK_LIMIT)
	assert.Nil(t, err)

	type args struct {
		a *Automaton
		s string
	}
	tests := []struct {
		name string
		args args
		want bool
	}{
		{"no states", args{defaultAutomata.MakeEmpty(), ""}, false},
		{"empty string", args{defaultAutomata.MakeEmptyString(), ""}, true},
		{"digits", args{number, "0123"}, true},
		{"no digits", args{number, ""}, true},
		{"letter", args{number, "12a"}, false},
		{"multibyte", args{mustString(t, "añb"), "añb"}, true},
		{"prefix only", args{mustString(t, "añb"), "añ"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equalf(t, tt.want, Run(tt.args.a, tt.args.s), "Run(%v, %v)", tt.args.a, tt.args.s)
		})
	}
}
