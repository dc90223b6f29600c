package encoding_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/previsao/internal/encoding"
)

const backup = `{"transactions":[{"id":"t1","description":"Salário","category":"Alimentação"}]}`

func TestReadUTF8(t *testing.T) {
	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(backup)
	require.NoError(t, err)

	utf16be, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().String(backup)
	require.NoError(t, err)

	latin1, err := charmap.Windows1252.NewEncoder().String(backup)
	require.NoError(t, err)

	type testCase struct {
		name  string
		input []byte
	}

	tests := []testCase{
		{name: "UTF8Passthrough", input: []byte(backup)},
		{name: "UTF8BOMStripped", input: append([]byte{0xEF, 0xBB, 0xBF}, backup...)},
		{name: "UTF16LE", input: []byte(utf16le)},
		{name: "UTF16BE", input: []byte(utf16be)},
		{name: "Windows1252", input: []byte(latin1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encoding.ReadUTF8(bytes.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, backup, string(got))
		})
	}
}

func TestReadUTF8_Empty(t *testing.T) {
	got, err := encoding.ReadUTF8(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadUTF8_TooLarge(t *testing.T) {
	_, err := encoding.ReadUTF8(bytes.NewReader(make([]byte, encoding.MaxBackupSize+1)))
	assert.Error(t, err)
}

func TestDetect_UTF8IsNil(t *testing.T) {
	assert.Nil(t, encoding.Detect([]byte(backup)))
}
