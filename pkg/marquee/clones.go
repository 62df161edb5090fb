package marquee

import "math"

// CloneCount 计算铺满容器所需的完整克隆组数量
//
// CloneCount = ceil(containerExtent / contentLength)，最小为 1。
// contentLength 尚不可测（<= 0 或非有限）时保留 previous，
// previous 本身无效时返回 1，因此结果永远不会是 0 或无穷大。
func CloneCount(containerExtent, contentLength float64, previous int) int {
	if previous < 1 {
		previous = 1
	}
	if !(contentLength > 0) || math.IsInf(contentLength, 0) {
		return previous
	}
	if !(containerExtent > 0) {
		return 1
	}

	ratio := math.Ceil(containerExtent / contentLength)
	if math.IsInf(ratio, 0) || ratio > math.MaxInt32 {
		return previous
	}

	n := int(ratio)
	if n < 1 {
		return 1
	}
	return n
}
