package main

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/printer"
	"go/token"
	"os"
	"path/filepath"
)

// The number of slots in the interrupt descriptor table.
const numVectors = 256

// pushesErrorCode flags the exception vectors where the CPU pushes an error
// code onto the stack before transferring control to the gate. All other
// vectors get a dummy error code pushed by their entry stub so the stack
// layout seen by the dispatcher is uniform.
var pushesErrorCode = map[int]bool{
	8:  true, // double fault
	10: true, // invalid TSS
	11: true, // segment not present
	12: true, // stack-segment fault
	13: true, // general protection fault
	14: true, // page fault
	17: true, // alignment check
	21: true, // control protection
	29: true, // VMM communication
	30: true, // security
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[mkgates] error: %s\n", err.Error())
	os.Exit(1)
}

func genEntriesGoFile() string {
	var buf bytes.Buffer

	fmt.Fprint(&buf, "// Code generated by mkgates; DO NOT EDIT.\n\n")
	fmt.Fprint(&buf, "package gate\n\n")
	fmt.Fprint(&buf, `// Interrupt service entry stubs, one per vector. Each stub normalizes the
// stack to the Registers layout (pushing a dummy error code where the CPU
// does not supply one, then the vector number) and jumps to the common
// save/dispatch/restore code.
`)
	for vector := 0; vector < numVectors; vector++ {
		fmt.Fprintf(&buf, "func vectorEntry%d()\n", vector)
	}

	fmt.Fprint(&buf, "\n// vectorEntries maps each vector to its service entry stub.\n")
	fmt.Fprint(&buf, "var vectorEntries = [numVectors]func(){\n")
	for vector := 0; vector < numVectors; vector++ {
		if vector != 0 && vector%8 == 0 {
			fmt.Fprint(&buf, "\n")
		}
		fmt.Fprintf(&buf, "vectorEntry%d,", vector)
	}
	fmt.Fprint(&buf, "\n}\n")

	return buf.String()
}

func genEntriesAsmFile() string {
	var buf bytes.Buffer

	fmt.Fprint(&buf, "// Code generated by mkgates; DO NOT EDIT.\n\n")
	fmt.Fprint(&buf, "#include \"textflag.h\"\n\n")
	fmt.Fprint(&buf, `// dispatchCommon saves the interrupted context using the layout of the
// Registers structure, hands a pointer to it to the Go dispatcher and
// restores the context before resuming via IRETQ. On entry the stack holds
// the vector number, the error code and the CPU-supplied interrupt frame.
TEXT dispatchCommon<>(SB), NOSPLIT|NOFRAME, $0
`)
	regs := []string{"R15", "R14", "R13", "R12", "R11", "R10", "R9", "R8", "BP", "DI", "SI", "DX", "CX", "BX", "AX"}
	for _, reg := range regs {
		fmt.Fprintf(&buf, "\tPUSHQ\t%s\n", reg)
	}
	fmt.Fprint(&buf, `
	// Pass a *Registers overlay of the saved context to the dispatcher.
	MOVQ	SP, AX
	SUBQ	$8, SP
	MOVQ	AX, 0(SP)
	CALL	·dispatchInterrupt(SB)
	ADDQ	$8, SP

`)
	for i := len(regs) - 1; i >= 0; i-- {
		fmt.Fprintf(&buf, "\tPOPQ\t%s\n", regs[i])
	}
	fmt.Fprint(&buf, `
	// Drop the vector number and error code.
	ADDQ	$16, SP
	IRETQ
`)

	for vector := 0; vector < numVectors; vector++ {
		fmt.Fprintf(&buf, "\nTEXT ·vectorEntry%d(SB), NOSPLIT|NOFRAME, $0\n", vector)
		if !pushesErrorCode[vector] {
			fmt.Fprint(&buf, "\tPUSHQ\t$0\n")
		}
		fmt.Fprintf(&buf, "\tPUSHQ\t$%d\n", vector)
		fmt.Fprint(&buf, "\tJMP\tdispatchCommon<>(SB)\n")
	}

	return buf.String()
}

func writeFile(path, contents string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(contents)
	return err
}

func runTool() error {
	if len(os.Args) != 2 {
		fmt.Fprint(os.Stderr, "mkgates: generate the interrupt service entry stubs\n\n")
		fmt.Fprint(os.Stderr, "Usage: mkgates output-dir\n")
		os.Exit(1)
	}
	outDir := os.Args[1]

	// Pretty-print the Go half using go/printer; the asm half is emitted
	// verbatim.
	goData := genEntriesGoFile()
	fSet := token.NewFileSet()
	astFile, err := parser.ParseFile(fSet, "", goData, parser.ParseComments)
	if err != nil {
		return err
	}

	fOut, err := os.Create(filepath.Join(outDir, "entries_amd64.go"))
	if err != nil {
		return err
	}
	defer fOut.Close()

	if err = printer.Fprint(fOut, fSet, astFile); err != nil {
		return err
	}

	return writeFile(filepath.Join(outDir, "entries_amd64.s"), genEntriesAsmFile())
}

func main() {
	if err := runTool(); err != nil {
		exit(err)
	}
}
