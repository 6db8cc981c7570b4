package lang

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "what is the derivative of sin x", "English"},
		{"hindi", "न्यूटन का दूसरा नियम क्या है?", "Hindi"},
		{"tamil", "ஒளிச்சேர்க்கை என்றால் என்ன?", "Tamil"},
		{"telugu", "ఫోటోసింథసిస్ అంటే ఏమిటి?", "Telugu"},
		{"kannada", "ನ್ಯೂಟನ್ ನಿಯಮ ವಿವರಿಸಿ", "Kannada"},
		{"malayalam", "പ്രകാശസംശ്ലേഷണം എന്താണ്?", "Malayalam"},
		{"mixed latin first", "explain प्रकाश", "Hindi"},
		{"empty", "", "English"},
		{"digits and punctuation", "2 + 2 = ?", "English"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.text)
			if got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got, ok := Normalize("  hindi ")
	if !ok || got != "Hindi" {
		t.Errorf("Normalize(hindi) = %q, %v, want Hindi, true", got, ok)
	}

	if _, ok := Normalize("klingon"); ok {
		t.Error("Normalize(klingon) should not be supported")
	}
}

func TestSupportedCoversDetectableScripts(t *testing.T) {
	names := map[string]bool{}
	for _, n := range Supported() {
		names[n] = true
	}
	for _, s := range scripts {
		if !names[Name(s.tag)] {
			t.Errorf("detectable language %s missing from Supported()", Name(s.tag))
		}
	}
}
