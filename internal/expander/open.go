package expander

import "fmt"

// Bus driver names accepted by Open.
const (
	DriverPeriph = "periph"
	DriverReefPi = "reefpi"
)

// Open returns a Bus for the named driver. busName is only meaningful to
// the periph driver; reef-pi always uses /dev/i2c-1.
func Open(driver, busName string, addr uint16) (Bus, error) {
	switch driver {
	case DriverPeriph, "":
		b, err := OpenPeriph(busName, addr)
		if err != nil {
			return nil, err
		}
		return b, nil
	case DriverReefPi:
		if addr > 0x7F {
			return nil, fmt.Errorf("address 0x%x out of 7-bit range", addr)
		}
		b, err := OpenReefPi(byte(addr))
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown i2c driver %q", driver)
	}
}
