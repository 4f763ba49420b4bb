package diagnostics

import (
	"sync"
	"testing"
)

func TestNewLog(t *testing.T) {
	// ==============================================================
	// Sole constructor returns a fully initialised log.
	// ==============================================================
	t.Run("creates log with source and empty state", func(t *testing.T) {
		log := NewLog("firmware.bin")

		if log == nil {
			t.Fatal("Expected non-nil Log")
		}
		if log.Source() != "firmware.bin" {
			t.Errorf("Expected source 'firmware.bin', got '%s'", log.Source())
		}
		if log.Count() != 0 {
			t.Errorf("Expected 0 entries, got %d", log.Count())
		}
	})
}

func TestLog_Recording(t *testing.T) {
	// ==============================================================
	// Each severity method records an entry at the given position.
	// ==============================================================
	t.Run("records entries with distinct severities", func(t *testing.T) {
		log := NewLog("-")

		log.Error(At(0x10, 0), "decoding error")
		log.Warning(At(0x11, 1), "ambiguous mandatory prefix")
		log.Info(At(0x13, 2), "decoded NOP")
		log.Trace(At(0x14, 3), "walked opcode tree")

		if log.Count() != 4 {
			t.Fatalf("Expected 4 entries, got %d", log.Count())
		}
		entries := log.Entries()
		if entries[0].Severity() != SeverityError {
			t.Errorf("Expected first entry severity 'error', got '%s'", entries[0].Severity())
		}
		if entries[0].Position().Offset() != 0x10 {
			t.Errorf("Expected offset 0x10, got 0x%x", entries[0].Position().Offset())
		}
		if entries[3].Severity() != SeverityTrace {
			t.Errorf("Expected fourth entry severity 'trace', got '%s'", entries[3].Severity())
		}
	})

	// ==============================================================
	// With* chaining methods attach optional context without
	// mutating the entry's core identity.
	// ==============================================================
	t.Run("WithDetail and WithStatus chain onto the returned entry", func(t *testing.T) {
		log := NewLog("-")

		e := log.Error(At(0x0, 0), "decoding error").
			WithDetail("ff").
			WithStatus("decoding error")

		if e.Detail() != "ff" {
			t.Errorf("Expected detail 'ff', got '%s'", e.Detail())
		}
		if e.Status() != "decoding error" {
			t.Errorf("Expected status 'decoding error', got '%s'", e.Status())
		}
		if log.Entries()[0] != e {
			t.Error("Expected chaining to mutate the entry already appended to the log")
		}
	})
}

func TestLog_Filtering(t *testing.T) {
	// ==============================================================
	// Errors/Warnings/HasErrors only consider matching severities.
	// ==============================================================
	t.Run("filters entries by severity", func(t *testing.T) {
		log := NewLog("-")
		log.Info(At(0, 0), "ok")
		log.Warning(At(1, 1), "watch this")
		log.Error(At(2, 2), "broke here")

		if len(log.Errors()) != 1 {
			t.Errorf("Expected 1 error, got %d", len(log.Errors()))
		}
		if len(log.Warnings()) != 1 {
			t.Errorf("Expected 1 warning, got %d", len(log.Warnings()))
		}
		if !log.HasErrors() {
			t.Error("Expected HasErrors to be true")
		}
	})

	t.Run("HasErrors is false with no error entries", func(t *testing.T) {
		log := NewLog("-")
		log.Info(At(0, 0), "ok")

		if log.HasErrors() {
			t.Error("Expected HasErrors to be false")
		}
	})
}

func TestLog_ConcurrentWrites(t *testing.T) {
	// ==============================================================
	// Log is safe for concurrent writers, same guarantee the
	// teacher's assembler-side DebugContext made.
	// ==============================================================
	t.Run("accepts concurrent record calls without data races", func(t *testing.T) {
		log := NewLog("-")
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				log.Info(At(uint64(i), i), "concurrent entry")
			}(i)
		}
		wg.Wait()

		if log.Count() != 50 {
			t.Errorf("Expected 50 entries, got %d", log.Count())
		}
	})
}

func TestPosition_String(t *testing.T) {
	// ==============================================================
	// String() renders "insn#N@0xOFFSET".
	// ==============================================================
	t.Run("formats offset in hex and index in decimal", func(t *testing.T) {
		p := At(0x1a, 3)
		if got, want := p.String(), "insn#3@0x1a"; got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	})
}
