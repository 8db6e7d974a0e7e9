// Package vmapi holds the fixed mapping from C function names to the
// script VM's single-mnemonic instructions (spec §6), along with the two
// functions that require compile-time-constant literal argument remapping.
package vmapi

import "github.com/chschnell/pcc/internal/symtab"

// Entry describes one VM-API function prototype and its mnemonic.
type Entry struct {
	Name     string
	Mnemonic string
	Args     []symtab.Type
	Return   symtab.Type
	Remaps   []symtab.ArgLiteralRemap
}

// modeRemapTable implements gpioSetMode's second-argument remap: 0..7 -> one
// character of "RW540123" (§6).
var modeRemapTable = func() map[int]string {
	const chars = "RW540123"
	m := make(map[int]string, len(chars))
	for i, c := range chars {
		m[i] = string(c)
	}
	return m
}()

// pudRemapTable implements gpioSetPullUpDown's second-argument remap: 0..2 ->
// one character of "ODU" (§6).
var pudRemapTable = func() map[int]string {
	const chars = "ODU"
	m := make(map[int]string, len(chars))
	for i, c := range chars {
		m[i] = string(c)
	}
	return m
}()

func i(n int) []symtab.Type {
	args := make([]symtab.Type, n)
	for k := range args {
		args[k] = symtab.TypeInt
	}
	return args
}

// Table is the complete, fixed VM-API surface from spec §6, grouped as
// documented there: GPIO, PWM, servo, intermediate, advanced, events, I2C,
// utility, configuration, script-exclusive.
var Table = []Entry{
	// GPIO
	{Name: "gpioSetMode", Mnemonic: "MODES", Args: i(2), Return: symtab.TypeVoid,
		Remaps: []symtab.ArgLiteralRemap{{ArgIndex: 1, Table: modeRemapTable}}},
	{Name: "gpioGetMode", Mnemonic: "MODEG", Args: i(1), Return: symtab.TypeInt},
	{Name: "gpioSetPullUpDown", Mnemonic: "PUD", Args: i(2), Return: symtab.TypeVoid,
		Remaps: []symtab.ArgLiteralRemap{{ArgIndex: 1, Table: pudRemapTable}}},
	{Name: "gpioRead", Mnemonic: "READ", Args: i(1), Return: symtab.TypeInt},
	{Name: "gpioWrite", Mnemonic: "WRITE", Args: i(2), Return: symtab.TypeVoid},

	// PWM
	{Name: "gpioPWM", Mnemonic: "PWM", Args: i(2), Return: symtab.TypeVoid},
	{Name: "gpioSetPWMfrequency", Mnemonic: "PFS", Args: i(2), Return: symtab.TypeVoid},
	{Name: "gpioSetPWMrange", Mnemonic: "PRS", Args: i(2), Return: symtab.TypeVoid},
	{Name: "gpioGetPWMdutycycle", Mnemonic: "GDC", Args: i(1), Return: symtab.TypeInt},
	{Name: "gpioGetPWMfrequency", Mnemonic: "PFG", Args: i(1), Return: symtab.TypeInt},
	{Name: "gpioGetPWMrange", Mnemonic: "PRG", Args: i(1), Return: symtab.TypeInt},
	{Name: "gpioGetPWMrealRange", Mnemonic: "PRRG", Args: i(1), Return: symtab.TypeInt},

	// servo
	{Name: "gpioServo", Mnemonic: "SERVO", Args: i(2), Return: symtab.TypeVoid},
	{Name: "gpioGetServoPulsewidth", Mnemonic: "GPW", Args: i(1), Return: symtab.TypeInt},

	// intermediate
	{Name: "gpioTrigger", Mnemonic: "TRIG", Args: i(3), Return: symtab.TypeVoid},
	{Name: "gpioSetWatchdog", Mnemonic: "WDOG", Args: i(2), Return: symtab.TypeVoid},
	{Name: "gpioRead_Bits_0_31", Mnemonic: "BR1", Args: i(0), Return: symtab.TypeInt},
	{Name: "gpioRead_Bits_32_53", Mnemonic: "BR2", Args: i(0), Return: symtab.TypeInt},
	{Name: "gpioClear_Bits_0_31", Mnemonic: "BC1", Args: i(1), Return: symtab.TypeVoid},
	{Name: "gpioClear_Bits_32_53", Mnemonic: "BC2", Args: i(1), Return: symtab.TypeVoid},
	{Name: "gpioSet_Bits_0_31", Mnemonic: "BS1", Args: i(1), Return: symtab.TypeVoid},
	{Name: "gpioSet_Bits_32_53", Mnemonic: "BS2", Args: i(1), Return: symtab.TypeVoid},

	// advanced
	{Name: "gpioNotifyOpen", Mnemonic: "NO", Args: i(0), Return: symtab.TypeInt},
	{Name: "gpioNotifyClose", Mnemonic: "NC", Args: i(1), Return: symtab.TypeVoid},
	{Name: "gpioNotifyBegin", Mnemonic: "NB", Args: i(2), Return: symtab.TypeVoid},
	{Name: "gpioNotifyPause", Mnemonic: "NP", Args: i(1), Return: symtab.TypeVoid},
	{Name: "gpioHardwareClock", Mnemonic: "HC", Args: i(2), Return: symtab.TypeVoid},
	{Name: "gpioHardwarePWM", Mnemonic: "HP", Args: i(3), Return: symtab.TypeVoid},
	{Name: "gpioGlitchFilter", Mnemonic: "FG", Args: i(2), Return: symtab.TypeVoid},
	{Name: "gpioNoiseFilter", Mnemonic: "FN", Args: i(3), Return: symtab.TypeVoid},
	{Name: "gpioSetPad", Mnemonic: "PADS", Args: i(2), Return: symtab.TypeVoid},
	{Name: "gpioGetPad", Mnemonic: "PADG", Args: i(1), Return: symtab.TypeInt},

	// events
	{Name: "eventMonitor", Mnemonic: "EVM", Args: i(2), Return: symtab.TypeVoid},
	{Name: "eventTrigger", Mnemonic: "EVT", Args: i(1), Return: symtab.TypeVoid},

	// I2C
	{Name: "i2cOpen", Mnemonic: "I2CO", Args: i(3), Return: symtab.TypeInt},
	{Name: "i2cClose", Mnemonic: "I2CC", Args: i(1), Return: symtab.TypeVoid},
	{Name: "i2cWriteQuick", Mnemonic: "I2CWQ", Args: i(2), Return: symtab.TypeVoid},
	{Name: "i2cReadSByte", Mnemonic: "I2CRS", Args: i(1), Return: symtab.TypeInt},
	{Name: "i2cWriteSByte", Mnemonic: "I2CWS", Args: i(2), Return: symtab.TypeVoid},
	{Name: "i2cReadByte", Mnemonic: "I2CRB", Args: i(2), Return: symtab.TypeInt},
	{Name: "i2cWriteByte", Mnemonic: "I2CWB", Args: i(3), Return: symtab.TypeVoid},
	{Name: "i2cReadWord", Mnemonic: "I2CRW", Args: i(2), Return: symtab.TypeInt},
	{Name: "i2cWriteWord", Mnemonic: "I2CWW", Args: i(3), Return: symtab.TypeVoid},
	{Name: "i2cProcessCall", Mnemonic: "I2CPC", Args: i(3), Return: symtab.TypeInt},

	// utility
	{Name: "gpioHardwareRevision", Mnemonic: "HWVER", Args: i(0), Return: symtab.TypeInt},
	{Name: "gpioDelay", Mnemonic: "MICS", Args: i(1), Return: symtab.TypeVoid},
	{Name: "gpioDelayMilliseconds", Mnemonic: "MILS", Args: i(1), Return: symtab.TypeVoid},
	{Name: "gpioVersion", Mnemonic: "PIGPV", Args: i(0), Return: symtab.TypeInt},
	{Name: "gpioTick", Mnemonic: "TICK", Args: i(0), Return: symtab.TypeInt},

	// configuration
	{Name: "gpioCfgGetInternals", Mnemonic: "CGI", Args: i(0), Return: symtab.TypeInt},
	{Name: "gpioCfgSetInternals", Mnemonic: "CSI", Args: i(1), Return: symtab.TypeVoid},

	// script-exclusive
	{Name: "waitFor", Mnemonic: "WAIT", Args: i(1), Return: symtab.TypeVoid},
	{Name: "eventWait", Mnemonic: "EVTWT", Args: i(2), Return: symtab.TypeInt},
	{Name: "exit", Mnemonic: "HALT", Args: i(1), Return: symtab.TypeVoid},
}

// ByName indexes Table for O(1) lookup during declaration checking.
var ByName = func() map[string]Entry {
	m := make(map[string]Entry, len(Table))
	for _, e := range Table {
		m[e.Name] = e
	}
	return m
}()

// Lookup returns the VM-API entry for name, if any.
func Lookup(name string) (Entry, bool) {
	e, ok := ByName[name]
	return e, ok
}
