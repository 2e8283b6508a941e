package tbalancer

const (
	startFlag = 0x64
	endFlag   = 0xFE

	frameLength = 285

	classBigNG    = 0xFF
	classBigNGAlt = 0x58
	classMiniNG   = 0xFD

	requestPrimary     = 0x38
	requestAlternative = 0x37

	offsetClass           = 1
	offsetProtocolVersion = 274

	offsetFanMode     = 136
	offsetPwm         = 137
	offsetAnalog      = 141
	offsetMaxRpm      = 148
	offsetFlowPulses  = 231
	offsetFlowDivisor = 234
	offsetDigital     = 238
	offsetAnalogTemp  = 246
	offsetSensorhub   = 257

	miniNGFrameLength    = 65
	miniNGOffsetEnd      = 61
	miniNGOffsetTemp     = 7
	miniNGOffsetControl  = 15
	miniNGOffsetFan      = 43
	miniNGSecondClassPos = 66

	digitalCount   = 8
	analogCount    = 4
	sensorhubCount = 6
	flowCount      = 2
	fanCount       = 4
	miniNGCount    = 2

	defaultImpulseRate = 509
)

func isBigNG(class byte) bool {
	return class == classBigNG || class == classBigNGAlt
}

// isSupportedProtocol reports whether the protocol version is one of the 0x2X family
func isSupportedProtocol(version byte) bool {
	return version&0xF0 == 0x20
}

func temperatureValue(raw byte, offset float32) float32 {
	return 0.5*float32(raw) + offset
}

// flowPulses converts the pulse count and the measurement period divisor into pulses per second
func flowPulses(pulses byte, divisor byte) float32 {
	return 4 * float32(pulses) / float32(divisor)
}

// flowRate converts pulses per second into liters per hour
func flowRate(pulsesPerSecond float32, impulseRate float32) float32 {
	return pulsesPerSecond * 3600 / impulseRate
}

func maxRpm(data []byte, channel int) float32 {
	hi := uint16(data[offsetMaxRpm+2*channel+1])
	lo := uint16(data[offsetMaxRpm+2*channel])
	return 11.5 * float32(hi<<8|lo)
}

// fanFactor returns the relative output of a fan channel, either
// pwm or analog depending on the channel mode
func fanFactor(data []byte, channel int) float32 {
	if data[offsetFanMode]&(1<<channel) == 0 {
		return 0.02 * float32(data[offsetPwm+channel])
	}
	return 0.01 * float32(data[offsetAnalog+channel])
}
