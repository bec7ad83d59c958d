package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidConnectionType(t *testing.T) {
	for _, typ := range ConnectionTypes {
		assert.True(t, IsValidConnectionType(typ), typ)
	}
	assert.False(t, IsValidConnectionType("carrier-pigeon"))
	assert.False(t, IsValidConnectionType(""))
}

func TestDecodeConnectionConfig(t *testing.T) {
	for _, tt := range []struct {
		msg  string
		raw  string
		want map[string]any
	}{
		{
			msg:  "it must decode a stored json object",
			raw:  `{"host":"sftp.example","port":22}`,
			want: map[string]any{"host": "sftp.example", "port": float64(22)},
		},
		{
			msg:  "it must treat an empty column as no config",
			raw:  "",
			want: nil,
		},
		{
			msg:  "it must swallow malformed text and return an empty mapping",
			raw:  "{not json",
			want: map[string]any{},
		},
		{
			msg:  "it must swallow non-object json",
			raw:  `[1,2,3]`,
			want: map[string]any{},
		},
	} {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeConnectionConfig(tt.raw))
		})
	}
}
