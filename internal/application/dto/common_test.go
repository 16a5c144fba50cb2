package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Taller-api/internal/application/dto"
)

func TestDefaultPage(t *testing.T) {
	cases := []struct {
		name       string
		in         dto.PageRequest
		wantLimit  int
		wantOffset int
	}{
		{"vacía usa valores por defecto", dto.PageRequest{}, dto.DefaultPageLimit, 0},
		{"límite negativo", dto.PageRequest{Limit: -5, Offset: 3}, dto.DefaultPageLimit, 3},
		{"offset negativo", dto.PageRequest{Limit: 10, Offset: -1}, 10, 0},
		{"límite sobre el máximo se recorta", dto.PageRequest{Limit: 5000}, dto.MaxPageLimit, 0},
		{"límite en el máximo se respeta", dto.PageRequest{Limit: dto.MaxPageLimit, Offset: 40}, dto.MaxPageLimit, 40},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.in
			p.DefaultPage()
			assert.Equal(t, tc.wantLimit, p.Limit)
			assert.Equal(t, tc.wantOffset, p.Offset)
		})
	}
}
