// Package rut valida y normaliza el RUT chileno (Rol Único Tributario).
package rut

import (
	"fmt"
	"strings"
)

// Normalize quita puntos y espacios y devuelve el RUT como "cuerpo-DV" con DV en mayúscula.
// "12.345.678-5" → "12345678-5". No valida el dígito verificador.
func Normalize(s string) (string, error) {
	var body []byte
	clean := strings.ToUpper(strings.TrimSpace(s))
	for i, r := range clean {
		switch {
		case r == '.' || r == '-' || r == ' ':
			continue
		case r >= '0' && r <= '9':
			body = append(body, byte(r))
		case r == 'K' && i == len(clean)-1:
			body = append(body, 'K')
		default:
			return "", fmt.Errorf("rut: carácter inválido %q", r)
		}
	}
	if len(body) < 2 {
		return "", fmt.Errorf("rut: se requieren cuerpo y dígito verificador")
	}
	dv := body[len(body)-1]
	body = body[:len(body)-1]
	if len(body) > 9 {
		return "", fmt.Errorf("rut: cuerpo demasiado largo (%d dígitos)", len(body))
	}
	return string(body) + "-" + string(dv), nil
}

// ComputeDV calcula el dígito verificador módulo 11 (pesos 2..7 desde la derecha).
// Devuelve '0'..'9' o 'K'.
func ComputeDV(body string) (byte, error) {
	if body == "" {
		return 0, fmt.Errorf("rut: cuerpo vacío")
	}
	sum, weight := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("rut: cuerpo con carácter no numérico %q", c)
		}
		sum += int(c-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	switch r := 11 - sum%11; r {
	case 11:
		return '0', nil
	case 10:
		return 'K', nil
	default:
		return byte('0' + r), nil
	}
}

// Validate normaliza el RUT y verifica su dígito verificador.
// Devuelve la forma normalizada si es válido.
func Validate(s string) (string, error) {
	norm, err := Normalize(s)
	if err != nil {
		return "", err
	}
	body, dv := norm[:len(norm)-2], norm[len(norm)-1]
	expected, err := ComputeDV(body)
	if err != nil {
		return "", err
	}
	if dv != expected {
		return "", fmt.Errorf("rut: dígito verificador inválido: esperado %c, recibido %c", expected, dv)
	}
	return norm, nil
}
