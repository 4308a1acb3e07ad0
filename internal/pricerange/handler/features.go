package handler

import "github.com/Meesho/BharatMLStack/price-range/internal/artifact"

const UnknownLabel = "Unknown"

var priceRanges = []string{"Low cost", "Medium cost", "High cost", "Very high cost"}

var FeatureNames = []string{
	"battery_power", "blue", "clock_speed", "dual_sim", "fc", "four_g", "int_memory", "m_dep",
	"mobile_wt", "n_cores", "pc", "px_height", "px_width", "ram", "sc_h", "sc_w", "talk_time",
	"three_g", "touch_screen", "wifi",
}

func DefaultFeatureRecord() FeatureRecord {
	return FeatureRecord{
		BatteryPower: 2400,
		ClockSpeed:   2.2,
		Fc:           1,
		IntMemory:    7,
		MDep:         0.6,
		MobileWt:     188,
		NCores:       2,
		Pc:           2,
		PxHeight:     20,
		PxWidth:      756,
		Ram:          2549,
		ScH:          9,
		ScW:          7,
		TalkTime:     19,
		Wifi:         1,
	}
}

func DefaultPredictRequest() PredictRequest {
	return PredictRequest{FeatureRecord: DefaultFeatureRecord(), ModelID: artifact.DefaultModelID}
}

// Vector lists the fields in FeatureNames order
func (r FeatureRecord) Vector() []float64 {
	return []float64{
		float64(r.BatteryPower),
		float64(r.Blue),
		r.ClockSpeed,
		float64(r.DualSim),
		float64(r.Fc),
		float64(r.FourG),
		float64(r.IntMemory),
		r.MDep,
		float64(r.MobileWt),
		float64(r.NCores),
		float64(r.Pc),
		float64(r.PxHeight),
		float64(r.PxWidth),
		float64(r.Ram),
		float64(r.ScH),
		float64(r.ScW),
		float64(r.TalkTime),
		float64(r.ThreeG),
		float64(r.TouchScreen),
		float64(r.Wifi),
	}
}

// Label maps a class index to its price range name
func Label(class int) string {
	if class < 0 || class >= len(priceRanges) {
		return UnknownLabel
	}
	return priceRanges[class]
}
