package handler

import "github.com/Meesho/BharatMLStack/price-range/internal/artifact"

// FeatureRecord describes one phone. Field order is the feature order models are trained on.
type FeatureRecord struct {
	BatteryPower int     `form:"battery_power,default=2400" json:"battery_power"`
	Blue         int     `form:"blue,default=0" json:"blue"`
	ClockSpeed   float64 `form:"clock_speed,default=2.2" json:"clock_speed" binding:"gt=0"`
	DualSim      int     `form:"dual_sim,default=0" json:"dual_sim"`
	Fc           int     `form:"fc,default=1" json:"fc"`
	FourG        int     `form:"four_g,default=0" json:"four_g"`
	IntMemory    int     `form:"int_memory,default=7" json:"int_memory"`
	MDep         float64 `form:"m_dep,default=0.6" json:"m_dep"`
	MobileWt     int     `form:"mobile_wt,default=188" json:"mobile_wt"`
	NCores       int     `form:"n_cores,default=2" json:"n_cores"`
	Pc           int     `form:"pc,default=2" json:"pc"`
	PxHeight     int     `form:"px_height,default=20" json:"px_height"`
	PxWidth      int     `form:"px_width,default=756" json:"px_width"`
	Ram          int     `form:"ram,default=2549" json:"ram"`
	ScH          int     `form:"sc_h,default=9" json:"sc_h"`
	ScW          int     `form:"sc_w,default=7" json:"sc_w"`
	TalkTime     int     `form:"talk_time,default=19" json:"talk_time"`
	ThreeG       int     `form:"three_g,default=0" json:"three_g"`
	TouchScreen  int     `form:"touch_screen,default=0" json:"touch_screen"`
	Wifi         int     `form:"wifi,default=1" json:"wifi"`
}

// PredictRequest is a FeatureRecord plus the model to score it with
type PredictRequest struct {
	FeatureRecord
	ModelID string `form:"model_id,default=default_model_id" json:"model_id"`
}

type PredictResponse struct {
	PriceRange string `json:"price_range"`
	ModelUsed  string `json:"model_used"`
}

type ModelsResponse struct {
	Models []string `json:"models"`
}

type MetricsResponse struct {
	ModelID string           `json:"model_id"`
	Metrics artifact.Metrics `json:"metrics"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
