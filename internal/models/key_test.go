package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Buy Milk!", "buymilk"},
		{"buy milk", "buymilk"},
		{`Fix "the" [bug] \ now/later`, "fixthebugnowlater"},
		{"a<b>c;d:e)f(g*h&i^j%k$l#m@n!o`p~q?r'", "abcdefghijklmnopqr"},
		{"Déjà-Vu_2", "déjà-vu_2"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveKey(tt.name))
		})
	}
}

func TestDeriveKeyIsIdempotent(t *testing.T) {
	for _, name := range []string{"Buy Milk!", "  Call (mom) @ 5pm?", "plain"} {
		once := DeriveKey(name)
		assert.Equal(t, once, DeriveKey(once))
	}
}
