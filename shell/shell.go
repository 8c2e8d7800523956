package shell

import (
	"github.com/shadowm-mounarch/shadowos/device/input/keyboard"
	"github.com/shadowm-mounarch/shadowos/device/storage"
	"github.com/shadowm-mounarch/shadowos/device/video/console"
	"github.com/shadowm-mounarch/shadowos/kernel"
	"github.com/shadowm-mounarch/shadowos/kernel/cpu"
	"github.com/shadowm-mounarch/shadowos/kernel/hal"
	"github.com/shadowm-mounarch/shadowos/kernel/kfmt"
	"github.com/shadowm-mounarch/shadowos/kernel/sync"
)

const (
	// prompt is printed before every input line.
	prompt = "shadow> "

	// lineBufferSize is the maximum length of a single command line.
	lineBufferSize = 256

	// kbControllerPort is the 8042 keyboard controller command port. Writing
	// the reset pulse command to it asserts the CPU reset line.
	kbControllerPort = 0x64
	kbCmdResetPulse  = 0xfe

	// versionString identifies the kernel build reported by the info
	// command.
	versionString = "0.1.0"
)

var errRebootFailed = &kernel.Error{Module: "shell", Message: "keyboard controller ignored the reset command"}

var (
	popKeyFn         = keyboard.Pop
	hltFn            = cpu.Hlt
	portWriteByteFn  = cpu.PortWriteByte
	activeConsoleFn  = hal.ActiveConsole
	activeSerialFn   = hal.ActiveSerial
	activeBlockDevFn = hal.ActiveBlockDevice
	panicFn          = kfmt.Panic

	acquireEchoMutexFn = acquireEchoMutex
	releaseEchoMutexFn = releaseEchoMutex

	// echoMutex masks interrupts while input echo bytes are written so a
	// keyboard interrupt cannot interleave its own output mid-echo.
	echoMutex sync.IRQSpinlock
)

func acquireEchoMutex() { echoMutex.AcquireIRQ() }
func releaseEchoMutex() { echoMutex.ReleaseIRQ() }

// shell holds the state of the interactive command interpreter.
type shell struct {
	line    [lineBufferSize]byte
	lineLen int
}

// Run enters the interactive command loop. Input characters are drained from
// the keyboard buffer; while the buffer is empty the CPU parks on a single
// hlt and resumes on the next interrupt. Run never returns.
func Run() {
	var sh shell
	sh.printPrompt()

	for {
		ch, ok := popKeyFn()
		if !ok {
			hltFn()
			continue
		}

		sh.handleChar(ch)
	}
}

// handleChar processes a single input character: printable characters are
// buffered and echoed, backspace pops the buffer and newline executes the
// buffered command line.
func (sh *shell) handleChar(ch byte) {
	switch {
	case ch == '\n':
		sh.echoChar('\n')
		sh.execute(sh.line[:sh.lineLen])
		sh.lineLen = 0
		sh.printPrompt()
	case ch == '\b':
		if sh.lineLen == 0 {
			return
		}
		sh.lineLen--
		sh.echoBackspace()
	case ch >= ' ' && ch < 0x7f:
		if sh.lineLen == len(sh.line) {
			return
		}
		sh.line[sh.lineLen] = ch
		sh.lineLen++
		sh.echoChar(ch)
	}
}

func (sh *shell) printPrompt() {
	kfmt.Printf(prompt)
}

func (sh *shell) echoChar(ch byte) {
	acquireEchoMutexFn()
	kfmt.Printf("%c", ch)
	releaseEchoMutexFn()
}

// echoBackspace removes the last echoed character from both output devices:
// the serial side understands the BS-space-BS sequence while the console gets
// an explicit cell erase.
func (sh *shell) echoBackspace() {
	acquireEchoMutexFn()
	if serial := activeSerialFn(); serial != nil {
		serial.Write([]byte{'\b', ' ', '\b'})
	}
	if cons := activeConsoleFn(); cons != nil {
		cons.Backspace()
	}
	releaseEchoMutexFn()
}

// execute interprets a buffered command line.
func (sh *shell) execute(line []byte) {
	cmd, args := splitCommand(line)

	switch {
	case len(cmd) == 0:
	case match(cmd, "help"):
		cmdHelp()
	case match(cmd, "clear"):
		cmdClear()
	case match(cmd, "echo"):
		kfmt.Printf("%s\n", args)
	case match(cmd, "info"):
		cmdInfo()
	case match(cmd, "disk"):
		cmdDisk()
	case match(cmd, "reboot"):
		cmdReboot()
	default:
		kfmt.Printf("unknown command: %s; type \"help\" for a command list\n", cmd)
	}
}

// splitCommand slices line into the command word and its argument remainder,
// dropping the surrounding whitespace.
func splitCommand(line []byte) (cmd, args []byte) {
	start := 0
	for start < len(line) && line[start] == ' ' {
		start++
	}

	end := start
	for end < len(line) && line[end] != ' ' {
		end++
	}
	cmd = line[start:end]

	for end < len(line) && line[end] == ' ' {
		end++
	}

	return cmd, line[end:]
}

// match reports whether cmd equals the command word s. It avoids converting
// cmd into a string so command dispatch does not allocate.
func match(cmd []byte, s string) bool {
	if len(cmd) != len(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if cmd[i] != s[i] {
			return false
		}
	}
	return true
}

func cmdHelp() {
	kfmt.Printf("available commands:\n")
	kfmt.Printf("  help           display this list\n")
	kfmt.Printf("  clear          clear the console\n")
	kfmt.Printf("  echo TEXT      print TEXT\n")
	kfmt.Printf("  info           display system information\n")
	kfmt.Printf("  disk           run a block device round-trip check\n")
	kfmt.Printf("  reboot         reset the system\n")
}

func cmdClear() {
	if cons := activeConsoleFn(); cons != nil {
		cons.Clear()
	}
}

func cmdInfo() {
	kfmt.Printf("shadowos %s\n", versionString)

	if cons := activeConsoleFn(); cons != nil {
		pxW, pxH := cons.Dimensions(console.Pixels)
		cols, rows := cons.Dimensions(console.Characters)
		kfmt.Printf("console: %dx%d pixels, %dx%d characters\n", pxW, pxH, cols, rows)
	} else {
		kfmt.Printf("console: none (headless)\n")
	}

	if dev := activeBlockDevFn(); dev != nil {
		kfmt.Printf("disk: %d blocks of %d bytes (%d KiB)\n", dev.BlockCount(), storage.BlockSize, dev.BlockCount()*storage.BlockSize/1024)
	} else {
		kfmt.Printf("disk: none\n")
	}
}

// cmdDisk writes a pattern to the last block of the active block device,
// reads it back and verifies the contents survived the round trip. The last
// block is used so the check does not clobber data at the start of the disk.
func cmdDisk() {
	dev := activeBlockDevFn()
	if dev == nil {
		kfmt.Printf("disk: no block device attached\n")
		return
	}

	var out, in [storage.BlockSize]byte
	for i := range out {
		out[i] = byte(i) ^ 0xa5
	}

	blockID := dev.BlockCount() - 1
	if err := dev.WriteBlock(blockID, out[:]); err != nil {
		kfmt.Printf("disk: write failed: %s\n", err.Error())
		return
	}
	if err := dev.ReadBlock(blockID, in[:]); err != nil {
		kfmt.Printf("disk: read failed: %s\n", err.Error())
		return
	}

	for i := range out {
		if in[i] != out[i] {
			kfmt.Printf("disk: verify failed at block %d offset %d\n", blockID, i)
			return
		}
	}

	kfmt.Printf("disk: %d byte round-trip through block %d ok\n", storage.BlockSize, blockID)
}

// cmdReboot asks the 8042 keyboard controller to pulse the CPU reset line.
// Control never reaches the panic on working hardware; reaching it means the
// controller ignored the reset command.
func cmdReboot() {
	kfmt.Printf("rebooting...\n")
	portWriteByteFn(kbControllerPort, kbCmdResetPulse)
	hltFn()
	panicFn(errRebootFailed)
}
