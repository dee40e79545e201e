package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSensitiveInProduction(t *testing.T) {
	orig := IsProduction
	IsProduction = true
	defer func() { IsProduction = orig }()

	masked := MaskSensitive("Cliente joao.silva@gmail.com placa ABC-1234 CPF 123.456.789-00")
	assert.NotContains(t, masked, "joao.silva@gmail.com")
	assert.NotContains(t, masked, "ABC-1234")
	assert.NotContains(t, masked, "123.456.789-00")
}

func TestMaskSensitiveMercosulPlate(t *testing.T) {
	orig := IsProduction
	IsProduction = true
	defer func() { IsProduction = orig }()

	masked := MaskSensitive("Veículo BRA2E19 entrou na oficina")
	assert.NotContains(t, masked, "BRA2E19")
}

func TestMaskSensitiveNoOpOutsideProduction(t *testing.T) {
	orig := IsProduction
	IsProduction = false
	defer func() { IsProduction = orig }()

	msg := "Cliente joao.silva@gmail.com placa ABC-1234"
	assert.Equal(t, msg, MaskSensitive(msg))
}
