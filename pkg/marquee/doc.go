// Package marquee 提供跑马灯（连续滚动展示）的核心计算
//
// 该包与渲染后端无关：方向映射、时长解析、进度推进、克隆数量计算、
// 帧时钟以及样式变量发布都在这里完成。ECS 系统（pkg/systems）负责把这些
// 计算与实体、尺寸观察和可见性联系起来；ebiten 与 tcell 两个宿主只负责驱动帧和绘制。
//
// 时间单位统一为毫秒，长度单位为宿主的像素（或终端的字符格）。
package marquee
