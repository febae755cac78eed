package flagx

import (
	"flag"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next dash token is not a value",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "repeated flag preserved in order",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:         "empty args",
			args:         nil,
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "/path/short.json", ConfigPath([]string{"-c", "/path/short.json"}))
	assert.Equal(t, "/path/long.json", ConfigPath([]string{"-a", ":3001", "-config", "/path/long.json"}))
	assert.Equal(t, "/path/eq.json", ConfigPath([]string{"--config=/path/eq.json"}))
	assert.Empty(t, ConfigPath([]string{"-x", "1"}))
	assert.Equal(t, "/2.json", ConfigPath([]string{"-c", "/1.json", "-config", "/2.json"}))
}

func TestMinutes(t *testing.T) {
	d := 15 * time.Minute
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(Minutes{&d}, "t", "")

	assert.Equal(t, "15", Minutes{&d}.String())
	require.NoError(t, fs.Parse([]string{"-t", "90"}))
	assert.Equal(t, 90*time.Minute, d)

	assert.Error(t, fs.Parse([]string{"-t", "abc"}))
	assert.Error(t, Minutes{&d}.Set("-5"))
	assert.Equal(t, "0", Minutes{}.String())
}

func TestStringList(t *testing.T) {
	var l []string
	require.NoError(t, StringList{&l}.Set(" http://a:1 , ,http://b:2"))
	assert.Equal(t, []string{"http://a:1", "http://b:2"}, l)
	assert.Equal(t, "http://a:1,http://b:2", StringList{&l}.String())
	assert.Equal(t, "", StringList{}.String())
}
