package models

// Observation is the provider payload as decoded. Pointer fields stay nil
// when the provider omitted them.
type Observation struct {
	Main    *MainBlock      `json:"main"`
	Weather []ConditionItem `json:"weather"`
	Wind    *WindBlock      `json:"wind"`
	Clouds  *CloudsBlock    `json:"clouds"`
	Sys     *SysBlock       `json:"sys"`
}

type MainBlock struct {
	Temp     *float64 `json:"temp"`
	Humidity *float64 `json:"humidity"`
	Pressure *float64 `json:"pressure"`
}

type ConditionItem struct {
	Main        string  `json:"main"`
	Description *string `json:"description"`
}

type WindBlock struct {
	Speed *float64 `json:"speed"`
	Deg   *float64 `json:"deg"`
}

type CloudsBlock struct {
	All *float64 `json:"all"`
}

type SysBlock struct {
	Sunrise *int64 `json:"sunrise"`
	Sunset  *int64 `json:"sunset"`
}
