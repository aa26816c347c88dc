package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Previsão", "previsao"},
		{"PROJEÇÃO", "projecao"},
		{"Região", "regiao"},
		{"eletrônicos no ano", "eletronicos no ano"},
		{"already plain", "already plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.in), tt.in)
	}
}

func TestColumnKey(t *testing.T) {
	assert.Equal(t, "id_produto", ColumnKey("  Id_Produto "))
	assert.Equal(t, "regiao", ColumnKey("Região"))
	assert.Equal(t, "r$_unit", ColumnKey("R$_Unit"))
	assert.Equal(t, "data_venda", ColumnKey("Data Venda"))
	assert.Equal(t, "id_venda", ColumnKey("\ufeffId_Venda"))
}

func BenchmarkFold(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Fold("Qual a previsão de vendas do produto 7 para os próximos 6 meses?")
	}
}
