package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

func TestTextSanitizerClean(t *testing.T) {
	text := newTextSanitizer()
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text untouched", input: "Parents & Teachers: 5 < 6", want: "Parents & Teachers: 5 < 6"},
		{name: "quotes untouched", input: `Read "Hamlet" by O'Neil's class`, want: `Read "Hamlet" by O'Neil's class`},
		{name: "tags stripped", input: "<p>Chapter <b>4</b></p>", want: "Chapter 4"},
		{name: "script body dropped", input: "Due Friday<script>alert(1)</script>", want: "Due Friday"},
		{name: "surrounding space trimmed", input: "  Read pages 4-7 \n", want: "Read pages 4-7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := text.clean("description", tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTextSanitizerRejectsEmptyResult(t *testing.T) {
	text := newTextSanitizer()
	for _, input := range []string{"<script>alert(1)</script>", "<i></i>", "   "} {
		_, err := text.clean("content", input)
		require.Error(t, err, input)
		appErr := appErrors.FromError(err)
		assert.Equal(t, 400, appErr.Status)
		assert.Equal(t, "must not be empty", appErr.Details["content"])
	}
}
