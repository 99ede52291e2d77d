package profile

import "testing"

func TestStart_Options(t *testing.T) {
	var c Config

	for _, opt := range []Option{WithMode("cpu"), WithDir("/tmp/stache"), WithQuiet(true)} {
		opt(&c)
	}

	if c != (Config{Mode: "cpu", Dir: "/tmp/stache", Quiet: true}) {
		t.Errorf("Config = %+v", c)
	}
}

func TestStart_NoMode(t *testing.T) {
	s := Start(WithDir(t.TempDir()), WithQuiet(true))
	if _, ok := s.(noop); !ok {
		t.Errorf("Start() without mode = %T, want no-op", s)
	}

	s.Stop()
}

func TestStart_UnknownMode(t *testing.T) {
	s := Start(WithMode("nope"), WithDir(t.TempDir()))
	if _, ok := s.(noop); !ok {
		t.Errorf("Start() with unknown mode = %T, want no-op", s)
	}

	s.Stop()
}
