package pic8259

import (
	"reflect"
	"testing"
)

// fakePIC emulates the data-port registers of the controller pair so the
// driver's read-modify-write cycles observe their own writes.
type fakePIC struct {
	writes     []portWrite
	masterMask uint8
	slaveMask  uint8
}

type portWrite struct {
	port uint16
	val  uint8
}

func (f *fakePIC) write(port uint16, val uint8) {
	f.writes = append(f.writes, portWrite{port, val})

	switch port {
	case masterDataPort:
		f.masterMask = val
	case slaveDataPort:
		f.slaveMask = val
	}
}

func (f *fakePIC) read(port uint16) uint8 {
	switch port {
	case masterDataPort:
		return f.masterMask
	case slaveDataPort:
		return f.slaveMask
	}
	return 0
}

func installFakePIC(t *testing.T) *fakePIC {
	t.Helper()

	fake := &fakePIC{masterMask: 0xff, slaveMask: 0xff}

	origRead, origWrite := portReadByteFn, portWriteByteFn
	origAcquire, origRelease := acquireMutexFn, releaseMutexFn
	portReadByteFn = fake.read
	portWriteByteFn = fake.write
	acquireMutexFn = func() {}
	releaseMutexFn = func() {}

	t.Cleanup(func() {
		portReadByteFn, portWriteByteFn = origRead, origWrite
		acquireMutexFn, releaseMutexFn = origAcquire, origRelease
	})

	return fake
}

func TestRemapSequence(t *testing.T) {
	fake := installFakePIC(t)

	var drv PIC
	if err := drv.DriverInit(nil); err != nil {
		t.Fatalf("DriverInit returned error: %v", err)
	}

	// Strip the io-wait writes; the remaining writes must follow the
	// ICW1-ICW4 programming order and end with both masks fully set.
	var programWrites []portWrite
	for _, w := range fake.writes {
		if w.port == ioWaitPort {
			continue
		}
		programWrites = append(programWrites, w)
	}

	expWrites := []portWrite{
		{masterCmdPort, icw1Init},
		{slaveCmdPort, icw1Init},
		{masterDataPort, MasterVectorOffset},
		{slaveDataPort, SlaveVectorOffset},
		{masterDataPort, cascadeMaskBit},
		{slaveDataPort, cascadeSlaveID},
		{masterDataPort, icw4Mode8086},
		{slaveDataPort, icw4Mode8086},
		{masterDataPort, maskAll},
		{slaveDataPort, maskAll},
	}

	if !reflect.DeepEqual(programWrites, expWrites) {
		t.Fatalf("expected programming sequence %v; got %v", expWrites, programWrites)
	}

	// Each programming byte must be followed by exactly one io-wait write.
	if exp, got := 2*len(expWrites), len(fake.writes); got != exp {
		t.Errorf("expected %d writes including io-waits; got %d", exp, got)
	}
	for i := 1; i < len(fake.writes); i += 2 {
		if fake.writes[i].port != ioWaitPort {
			t.Errorf("expected write %d to target the io-wait port; got port 0x%x", i, fake.writes[i].port)
		}
	}

	if fake.masterMask != 0xff || fake.slaveMask != 0xff {
		t.Errorf("expected both mask registers to read 0xff after init; got master=0x%x slave=0x%x",
			fake.masterMask, fake.slaveMask)
	}
}

func TestSetIRQMask(t *testing.T) {
	specs := []struct {
		descr         string
		irq           uint8
		masked        bool
		expMasterMask uint8
		expSlaveMask  uint8
	}{
		{"unmask keyboard", KeyboardIRQ, false, 0xfd, 0xff},
		{"unmask timer", TimerIRQ, false, 0xfe, 0xff},
		{"unmask slave line 8 also clears cascade", 8, false, 0xfb, 0xfe},
		{"unmask slave line 12", 12, false, 0xfb, 0xef},
		{"mask slave line leaves cascade alone", 12, true, 0xff, 0xff},
	}

	for specIndex, spec := range specs {
		t.Run(spec.descr, func(t *testing.T) {
			fake := installFakePIC(t)
			if spec.masked {
				// Start from a fully unmasked state so masking
				// a line is observable.
				fake.masterMask, fake.slaveMask = 0xfb, 0xef
			}

			SetIRQMask(spec.irq, spec.masked)

			if spec.masked {
				// Masking must only set the line's own bit.
				if fake.slaveMask != 0xff {
					t.Errorf("[spec %d] expected slave mask 0xff; got 0x%x", specIndex, fake.slaveMask)
				}
				if fake.masterMask != 0xfb {
					t.Errorf("[spec %d] expected master cascade bit to stay clear; got master mask 0x%x", specIndex, fake.masterMask)
				}
				return
			}

			if fake.masterMask != spec.expMasterMask {
				t.Errorf("[spec %d] expected master mask 0x%x; got 0x%x", specIndex, spec.expMasterMask, fake.masterMask)
			}
			if fake.slaveMask != spec.expSlaveMask {
				t.Errorf("[spec %d] expected slave mask 0x%x; got 0x%x", specIndex, spec.expSlaveMask, fake.slaveMask)
			}
		})
	}
}

func TestEOI(t *testing.T) {
	specs := []struct {
		vector    uint8
		expWrites []portWrite
	}{
		{MasterVectorOffset, []portWrite{{masterCmdPort, cmdEOI}}},
		{MasterVectorOffset + 1, []portWrite{{masterCmdPort, cmdEOI}}},
		{SlaveVectorOffset, []portWrite{{slaveCmdPort, cmdEOI}, {masterCmdPort, cmdEOI}}},
		{SlaveVectorOffset + 7, []portWrite{{slaveCmdPort, cmdEOI}, {masterCmdPort, cmdEOI}}},
	}

	for specIndex, spec := range specs {
		fake := installFakePIC(t)

		EOI(spec.vector)

		if !reflect.DeepEqual(fake.writes, spec.expWrites) {
			t.Errorf("[spec %d] expected EOI write sequence %v; got %v", specIndex, spec.expWrites, fake.writes)
		}
	}
}
