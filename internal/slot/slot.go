package slot

import (
    "fmt"
    "math/rand"
    "sort"
    "time"
)

// 默认参数（分钟 / 天）
const (
    DefaultCollisionMinutes = 30
    DefaultLookaheadDays    = 14
)

// ClockTime 每日模板中的一个时刻
type ClockTime struct {
    Hour   int
    Minute int
}

// ParseTemplate 解析 "HH:MM" 列表为每日模板
func ParseTemplate(items []string) ([]ClockTime, error) {
    res := make([]ClockTime, 0, len(items))
    for _, it := range items {
        var h, m int
        if _, err := fmt.Sscanf(it, "%d:%d", &h, &m); err != nil {
            return nil, fmt.Errorf("bad template time %q: %w", it, err)
        }
        if h < 0 || h > 23 || m < 0 || m > 59 {
            return nil, fmt.Errorf("bad template time %q", it)
        }
        res = append(res, ClockTime{Hour: h, Minute: m})
    }
    return res, nil
}

// Allocator 从每日模板计算可用发布时刻
// 除抖动外完全确定：给定 now 与 occupied，输出可复现（rnd 可注入）
type Allocator struct {
    template  []ClockTime
    loc       *time.Location
    jitterMax int           // 抖动上限（分钟，闭区间 [0, jitterMax]）
    collision time.Duration // 与任一已占用时刻的最小间隔
    lookahead int           // 向后看的天数
    rnd       *rand.Rand
}

func New(template []ClockTime, loc *time.Location, jitterMax, collisionMinutes, lookaheadDays int, rnd *rand.Rand) *Allocator {
    if loc == nil {
        loc = time.Local
    }
    if jitterMax < 0 {
        jitterMax = 0
    }
    if collisionMinutes <= 0 {
        collisionMinutes = DefaultCollisionMinutes
    }
    if lookaheadDays <= 0 {
        lookaheadDays = DefaultLookaheadDays
    }
    if rnd == nil {
        rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
    }
    tpl := make([]ClockTime, len(template))
    copy(tpl, template)
    sort.Slice(tpl, func(i, j int) bool {
        if tpl[i].Hour != tpl[j].Hour {
            return tpl[i].Hour < tpl[j].Hour
        }
        return tpl[i].Minute < tpl[j].Minute
    })
    return &Allocator{template: tpl, loc: loc, jitterMax: jitterMax, collision: time.Duration(collisionMinutes) * time.Minute, lookahead: lookaheadDays, rnd: rnd}
}

// Next 返回最多 n 个可用时刻（升序）
// 保证：严格晚于 now；与 occupied 及彼此的间隔 >= collision；
// 每个模板时刻在每一天独立重算抖动。槽位不足时返回短列表，由调用方上报。
func (a *Allocator) Next(now time.Time, occupied []time.Time, n int) []time.Time {
    if n <= 0 || len(a.template) == 0 {
        return nil
    }
    taken := make([]time.Time, 0, len(occupied)+n)
    taken = append(taken, occupied...)

    local := now.In(a.loc)
    picked := make([]time.Time, 0, n)
    for day := 0; day < a.lookahead && len(picked) < n; day++ {
        base := local.AddDate(0, 0, day)
        cands := make([]time.Time, 0, len(a.template))
        for _, t := range a.template {
            c := time.Date(base.Year(), base.Month(), base.Day(), t.Hour, t.Minute, 0, 0, a.loc)
            c = c.Add(time.Duration(a.rnd.Intn(a.jitterMax+1)) * time.Minute)
            cands = append(cands, c)
        }
        // 抖动可能打乱同日内顺序
        sort.Slice(cands, func(i, j int) bool { return cands[i].Before(cands[j]) })

        for _, c := range cands {
            if len(picked) >= n {
                break
            }
            if !c.After(now) {
                continue
            }
            if a.collides(c, taken) {
                continue
            }
            picked = append(picked, c)
            taken = append(taken, c)
        }
    }
    return picked
}

func (a *Allocator) collides(c time.Time, taken []time.Time) bool {
    for _, t := range taken {
        d := c.Sub(t)
        if d < 0 {
            d = -d
        }
        if d < a.collision {
            return true
        }
    }
    return false
}
