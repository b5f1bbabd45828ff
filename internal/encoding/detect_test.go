package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/caixa/internal/encoding"
)

func TestDecode_UTF8Passthrough(t *testing.T) {
	input := "Descrição;Valor;Vencimento\nAluguel escritório;1.200,00;05/03/2024\n"

	r, charset, err := encoding.Decode(bytes.NewReader([]byte(input)))
	require.NoError(t, err)
	assert.Equal(t, encoding.UTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestDecode_Windows1252(t *testing.T) {
	// "Descrição;Situação\n" with ç = 0xE7, ã = 0xE3
	latin1 := []byte{
		'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o', ';',
		'S', 'i', 't', 'u', 'a', 0xE7, 0xE3, 'o', '\n',
	}

	r, charset, err := encoding.Decode(bytes.NewReader(latin1))
	require.NoError(t, err)
	assert.NotEqual(t, encoding.UTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Descrição;Situação\n", string(got))
}

func TestDecode_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Descrição;Valor\n")...)

	r, charset, err := encoding.Decode(bytes.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, encoding.UTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Descrição;Valor\n", string(got))
}

func TestDecode_UTF16LE(t *testing.T) {
	input := []byte{0xFF, 0xFE, 'V', 0, 'a', 0, 'l', 0, 'o', 0, 'r', 0, '\n', 0}

	r, charset, err := encoding.Decode(bytes.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, encoding.UTF16LE, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Valor\n", string(got))
}

func TestDecode_LargeInput(t *testing.T) {
	input := bytes.Repeat([]byte("Pagamento fornecedor;150,00;10/03/2024\n"), 500)

	r, charset, err := encoding.Decode(bytes.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, encoding.UTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, len(input), len(got))
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   rune
	}{
		{name: "Semicolon", sample: "Descrição;Valor;Data\n1;1.200,50;01/01/2024", want: ';'},
		{name: "Comma", sample: "description,amount,due_date\nRent,1200.50,2024-01-01", want: ','},
		{name: "SingleColumn", sample: "description\nRent", want: ','},
		{name: "CommaInDecimalsOnly", sample: "Descrição;Valor\nx;1,5", want: ';'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encoding.DetectDelimiter([]byte(tt.sample)))
		})
	}
}
