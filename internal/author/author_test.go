// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package author

import (
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
)

func TestToCitationForm(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"single token", "Silva", "SILVA"},
		{"two tokens", "João Silva", "SILVA"},
		{"three tokens", "Maria Clara Souza", "SOUZA"},
		{"accented surname", "Ana Conceição", "CONCEIÇÃO"},
		{"extra whitespace", "  João   Silva  ", "SILVA"},
		{"tab separated", "João\tSilva", "SILVA"},
		{"particle ignored", "Luiz da Silva", "SILVA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToCitationForm(tt.in))
		})
	}
}

func TestToCitationFormLastTokenProperty(t *testing.T) {
	faker := gofakeit.New(42)
	for i := 0; i < 200; i++ {
		first := faker.FirstName()
		middle := faker.FirstName()
		last := faker.LastName()
		name := first + " " + middle + " " + last

		assert.Equal(t, strings.ToUpper(last), ToCitationForm(name), "name %q", name)
	}
}

func TestToReferenceForm(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"single token", "Silva", "SILVA"},
		{"two tokens", "João Silva", "SILVA, João"},
		{"three tokens", "Maria Clara Souza", "SOUZA, Maria Clara"},
		{"collapses whitespace", "Maria   Clara  Souza ", "SOUZA, Maria Clara"},
		{"accented", "Érico Veríssimo", "VERÍSSIMO, Érico"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToReferenceForm(tt.in))
		})
	}
}

func TestToReferenceFormDecomposedInput(t *testing.T) {
	// "Conceição" spelled with combining marks.
	decomposed := "Ana Concei" + "c\u0327a\u0303o"
	assert.Equal(t, "CONCEIÇÃO, Ana", ToReferenceForm(decomposed))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Silva", Capitalize("SILVA"))
	assert.Equal(t, "Érico", Capitalize("ÉRICO"))
	assert.Equal(t, "S", Capitalize("s"))
	assert.Equal(t, "", Capitalize(""))
}
