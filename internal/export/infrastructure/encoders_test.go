package infrastructure

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"chatvendas/internal/export/domain"
	"chatvendas/internal/testhelpers"
)

func TestWriteCSV(t *testing.T) {
	rows := domain.VendorRows(testhelpers.SampleDataset(t))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "id_vendedor,nome_vendedor,regiao", lines[0])
	assert.Equal(t, "3,Carla,Not Informed", lines[3])
}

func TestWriteXLSX(t *testing.T) {
	rows := domain.SaleRows(testhelpers.SampleDataset(t))

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "vendas", rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "vendas", f.GetSheetName(0))
	got, err := f.GetRows("vendas")
	require.NoError(t, err)
	require.Len(t, got, len(rows)+1)
	assert.Equal(t, rows[0].Header(), got[0])
	assert.Equal(t, "Notebook", got[1][3])
}

func TestWriteParquet(t *testing.T) {
	rows := domain.SaleRows(testhelpers.SampleDataset(t))

	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, rows))

	data := buf.Bytes()
	require.Greater(t, len(data), 8)
	assert.Equal(t, "PAR1", string(data[:4]))
	assert.Equal(t, "PAR1", string(data[len(data)-4:]))
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, "pdf", "", domain.ProductRows(testhelpers.SampleDataset(t)))
	assert.ErrorIs(t, err, domain.ErrUnknownFormat)
}

func BenchmarkWriteCSV(b *testing.B) {
	rows := domain.SaleRows(testhelpers.SampleDataset(b))
	for len(rows) < 10000 {
		rows = append(rows, rows...)
	}
	var buf bytes.Buffer

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := WriteCSV(&buf, rows); err != nil {
			b.Fatal(err)
		}
	}
}
