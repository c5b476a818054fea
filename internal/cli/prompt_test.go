package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedPrompter struct {
	lines     []string
	passwords []string
	asked     []string
}

func (p *scriptedPrompter) Line(prompt string) (string, error) {
	p.asked = append(p.asked, prompt)
	if len(p.lines) == 0 {
		return "", ErrPromptAborted
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func (p *scriptedPrompter) Password(prompt string) (string, error) {
	p.asked = append(p.asked, prompt)
	if len(p.passwords) == 0 {
		return "", ErrPromptAborted
	}
	pw := p.passwords[0]
	p.passwords = p.passwords[1:]
	return pw, nil
}

func TestAsk(t *testing.T) {
	p := &scriptedPrompter{lines: []string{"ID-42"}, passwords: []string{"s3cret"}}

	v, err := Ask(p, "given", "ID card number: ", false)
	require.NoError(t, err)
	assert.Equal(t, "given", v)
	assert.Empty(t, p.asked)

	v, err = Ask(p, "", "ID card number: ", false)
	require.NoError(t, err)
	assert.Equal(t, "ID-42", v)

	v, err = Ask(p, "", "Password: ", true)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", v)

	_, err = Ask(p, "", "Password: ", true)
	assert.ErrorIs(t, err, ErrPromptAborted)

	_, err = Ask(nil, "", "Password: ", true)
	require.Error(t, err)
	assert.Equal(t, "Password is required", err.Error())
}

func TestProgress(t *testing.T) {
	var out bytes.Buffer

	called := false
	require.NoError(t, progressTo(false, &out, "Loading subjects...", func() error {
		called = true
		return nil
	}))
	assert.True(t, called)

	boom := errors.New("boom")
	assert.ErrorIs(t, progressTo(false, &out, "Loading subjects...", func() error { return boom }), boom)
	assert.ErrorIs(t, progressTo(true, &out, "Loading subjects...", func() error { return boom }), boom)
}
