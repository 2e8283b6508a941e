package hardware

type NodeKind int

const (
	NodeHardware NodeKind = iota
	NodeSensor
	NodeParameter
)

// Node is one element visited by Walk. Depth is the hardware nesting
// level, sensors and parameters inherit the depth of their hardware.
type Node struct {
	Kind      NodeKind
	Depth     int
	Hardware  Hardware
	Sensor    *Sensor
	Parameter *Parameter
}

// Walk visits the given hardware depth-first: a hardware, its sensors
// (each followed by its parameters), then its sub-hardware.
// Walk stops at the first error returned by fn.
func Walk(roots []Hardware, fn func(node Node) error) error {
	for _, hw := range roots {
		if err := walk(hw, 0, fn); err != nil {
			return err
		}
	}
	return nil
}

func walk(hw Hardware, depth int, fn func(node Node) error) error {
	if err := fn(Node{Kind: NodeHardware, Depth: depth, Hardware: hw}); err != nil {
		return err
	}
	for _, sensor := range hw.Sensors() {
		if err := fn(Node{Kind: NodeSensor, Depth: depth, Hardware: hw, Sensor: sensor}); err != nil {
			return err
		}
		for _, parameter := range sensor.Parameters() {
			err := fn(Node{Kind: NodeParameter, Depth: depth, Hardware: hw, Sensor: sensor, Parameter: parameter})
			if err != nil {
				return err
			}
		}
	}
	for _, sub := range hw.SubHardware() {
		if err := walk(sub, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}
