package main

import (
    "fmt"
    "math/rand"
    "os"
    "sort"
    "strconv"
    "time"

    "github.com/d60-Lab/autopub/internal/slot"
)

// 本地基准：测不同占用规模下的槽位分配耗时与产出率
func main() {
    N := 100 // 每轮请求的槽位数
    if s := os.Getenv("N"); s != "" {
        if n, err := strconv.Atoi(s); err == nil && n > 0 { N = n }
    }
    OCC := 500 // 已占用时刻数
    if s := os.Getenv("OCC"); s != "" {
        if o, err := strconv.Atoi(s); err == nil && o >= 0 { OCC = o }
    }
    ROUNDS := 100
    if s := os.Getenv("ROUNDS"); s != "" {
        if r, err := strconv.Atoi(s); err == nil && r > 0 { ROUNDS = r }
    }

    tpl, err := slot.ParseTemplate([]string{"08:03", "12:35", "15:43", "17:30"})
    if err != nil { panic(err) }

    now := time.Now()
    rnd := rand.New(rand.NewSource(42))
    occupied := make([]time.Time, OCC)
    for i := range occupied {
        occupied[i] = now.Add(time.Duration(rnd.Intn(14*24*60)) * time.Minute)
    }

    alloc := slot.New(tpl, time.Local, 12, 30, 90, rnd)

    durs := make([]time.Duration, 0, ROUNDS)
    var got int
    for i := 0; i < ROUNDS; i++ {
        t0 := time.Now()
        slots := alloc.Next(now, occupied, N)
        durs = append(durs, time.Since(t0))
        got = len(slots)
    }
    sort.Slice(durs, func(i, j int) bool { return durs[i] < durs[j] })

    fmt.Printf("slotbench: n=%d occ=%d rounds=%d\n", N, OCC, ROUNDS)
    fmt.Printf("allocated %d/%d slots\n", got, N)
    fmt.Printf("p50=%v p95=%v p99=%v max=%v\n",
        durs[len(durs)/2], durs[len(durs)*95/100], durs[len(durs)*99/100], durs[len(durs)-1])
}
