package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowedAudioFile(t *testing.T) {
	allowed := []string{"wav", "mp3", "ogg", "flac"}

	cases := []struct {
		filename string
		want     bool
	}{
		{"voice.wav", true},
		{"voice.WAV", true},
		{"voice.Mp3", true},
		{"archive.tar.flac", true},
		{"voice.aiff", false},
		{"voice", false},
		{"", false},
		{".wav", false},        // 隱藏檔沒有副檔名
		{".hidden.wav", true},  // 隱藏檔帶真副檔名
		{"dir/.wav", false},    // 路徑裡的隱藏檔同樣拒絕
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsAllowedAudioFile(c.filename, allowed), c.filename)
	}
}

func TestIsAllowedAudioFileDottedWhitelist(t *testing.T) {
	// 白名單寫 ".wav" 或 "WAV" 都要能比對
	assert.True(t, IsAllowedAudioFile("a.wav", []string{".wav"}))
	assert.True(t, IsAllowedAudioFile("a.wav", []string{"WAV"}))
}

func TestIsValidGender(t *testing.T) {
	assert.True(t, IsValidGender("male"))
	assert.True(t, IsValidGender("female"))
	assert.False(t, IsValidGender("Male"))
	assert.False(t, IsValidGender("robot"))
	assert.False(t, IsValidGender(""))
}

func TestIsValidAgeBracket(t *testing.T) {
	for _, b := range []string{"child", "teen", "twenties", "thirties", "fourties", "fifties", "sixties", "seventies", "eighties"} {
		assert.True(t, IsValidAgeBracket(b), b)
	}
	assert.False(t, IsValidAgeBracket("nineties"))
	assert.False(t, IsValidAgeBracket(""))
}

func TestIsValidPlan(t *testing.T) {
	assert.True(t, IsValidPlan("free"))
	assert.True(t, IsValidPlan("pro"))
	assert.True(t, IsValidPlan("enterprise"))
	assert.False(t, IsValidPlan("trial"))
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole("admin"))
	assert.True(t, IsValidRole("user"))
	assert.False(t, IsValidRole("root"))
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus("active"))
	assert.True(t, IsValidStatus("blocked"))
	assert.True(t, IsValidStatus("deleted"))
	assert.False(t, IsValidStatus("suspended"))
}
