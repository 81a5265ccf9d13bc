package geo

import "math"

// 地球半径（英里），与距离过滤和排序使用的单位保持一致
const earthRadiusMiles = 3959

// DistanceMiles 两个经纬度点之间的大圆距离（haversine 公式，英里）。
// 纯函数，对称且确定：既用于给事件标注 distance_miles，也用于半径过滤。
func DistanceMiles(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
