package cpu

var (
	cpuidFn = ID
)

// EnableInterrupts enables interrupt handling.
func EnableInterrupts()

// DisableInterrupts disables interrupt handling.
func DisableInterrupts()

// InterruptsEnabled returns true if the IF bit of the RFLAGS register is set.
func InterruptsEnabled() bool

// Halt disables interrupt handling and stops instruction execution forever.
func Halt()

// Hlt suspends instruction execution until the next interrupt arrives. If
// interrupts are disabled the CPU never resumes.
func Hlt()

// ReadCR2 returns the value stored in the CR2 register.
func ReadCR2() uint64

// LoadGDT programs the GDTR with the supplied 10-byte pseudo-descriptor
// (16-bit limit followed by a 64-bit base address).
func LoadGDT(descriptor uintptr)

// LoadIDT programs the IDTR with the supplied 10-byte pseudo-descriptor
// (16-bit limit followed by a 64-bit base address).
func LoadIDT(descriptor uintptr)

// LoadTaskRegister loads the TSS selector into the task register.
func LoadTaskRegister(selector uint16)

// ReloadSegments reloads CS with codeSelector via a far return and resets
// DS, ES and SS to dataSelector.
func ReloadSegments(codeSelector, dataSelector uint16)

// ID returns information about the CPU and its features. It
// is implemented as a CPUID instruction with EAX=leaf and
// returns the values in EAX, EBX, ECX and EDX.
func ID(leaf uint32) (ret0, ret1, ret2, ret3 uint32)

// IsIntel returns true if the code is running on an Intel processor.
func IsIntel() bool {
	_, ebx, ecx, edx := cpuidFn(0)
	return ebx == 0x756e6547 && // "Genu"
		edx == 0x49656e69 && // "ineI"
		ecx == 0x6c65746e // "ntel"
}

// PortWriteByte writes a uint8 value to the requested port.
func PortWriteByte(port uint16, val uint8)

// PortWriteWord writes a uint16 value to the requested port.
func PortWriteWord(port uint16, val uint16)

// PortWriteDword writes a uint32 value to the requested port.
func PortWriteDword(port uint16, val uint32)

// PortReadByte reads a uint8 value from the requested port.
func PortReadByte(port uint16) uint8

// PortReadWord reads a uint16 value from the requested port.
func PortReadWord(port uint16) uint16

// PortReadDword reads a uint32 value from the requested port.
func PortReadDword(port uint16) uint32
