package service

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"sync"
	"time"

	"wellcontrol/pkg/logger"
)

// 井场数据帧：起始符 0x40 0x01，10 字节备用，DI/AI 字节数（大端），
// DI 位数据，AI float32 数据（小端），校验 {0x01, sum&0xFF}，0x0D 0x0A 结束。
// 布局与井场模拟器一致。
const (
	rigHeaderLen  = 16 // 起始符2 + 备用10 + DI字节数2 + AI字节数2
	rigTrailerLen = 4  // 校验2 + 结束符2
	rigAICount    = 8

	rigDialTimeout = 3 * time.Second
	rigIOTimeout   = 5 * time.Second
)

// AI 点位序号。流量通道为 m³/h，密度通道常为相对密度，解析时统一单位。
const (
	aiBitDepth = iota
	aiBlockPosition
	aiTripTank
	aiActiveTank
	aiSABP
	aiStandpipe
	aiFlow
	aiDensity
)

// rigPollCommand 轮询指令
var rigPollCommand = []byte{0x40, 0xFF, 0x00, 0x00, 0x0D, 0x0A}

var errBadFrame = errors.New("井场数据帧格式错误")

// RigFeed 井场传感器 TCP 轮询客户端。
// 后台周期拉取最近一帧并缓存，Snapshot 只读不阻塞。
type RigFeed struct {
	addr     string
	interval time.Duration

	mu   sync.RWMutex
	snap RigSnapshot
	ok   bool

	stop chan struct{}
}

func NewRigFeed(addr string, interval time.Duration) *RigFeed {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &RigFeed{
		addr:     addr,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (f *RigFeed) Start() {
	go f.loop()
}

func (f *RigFeed) Stop() {
	close(f.stop)
}

// Snapshot 最近一帧读数，尚未收到任何有效帧时 ok 为假
func (f *RigFeed) Snapshot() (RigSnapshot, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snap, f.ok
}

func (f *RigFeed) loop() {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	var conn net.Conn
	defer func() {
		if conn != nil {
			conn.Close()
		}
	}()

	for {
		select {
		case <-f.stop:
			return
		case <-ticker.C:
		}

		if conn == nil {
			c, err := net.DialTimeout("tcp", f.addr, rigDialTimeout)
			if err != nil {
				logger.Logger.Warnf("连接井场数据源 %s 失败: %v", f.addr, err)
				continue
			}
			conn = c
			logger.Logger.Infof("井场数据源 %s 已连接", f.addr)
		}

		snap, err := pollRigOnce(conn)
		if err != nil {
			// 断开重连，下个周期重试
			logger.Logger.Warnf("轮询井场数据失败: %v", err)
			conn.Close()
			conn = nil
			continue
		}

		f.mu.Lock()
		f.snap = snap
		f.ok = true
		f.mu.Unlock()
	}
}

// pollRigOnce 发一条轮询指令并读回完整一帧
func pollRigOnce(conn net.Conn) (RigSnapshot, error) {
	if err := conn.SetDeadline(time.Now().Add(rigIOTimeout)); err != nil {
		return RigSnapshot{}, err
	}
	if _, err := conn.Write(rigPollCommand); err != nil {
		return RigSnapshot{}, err
	}

	header := make([]byte, rigHeaderLen)
	if _, err := io.ReadFull(conn, header); err != nil {
		return RigSnapshot{}, err
	}
	diLen := int(binary.BigEndian.Uint16(header[12:14]))
	aiLen := int(binary.BigEndian.Uint16(header[14:16]))
	if diLen+aiLen > 64<<10 {
		return RigSnapshot{}, fmt.Errorf("%w: 数据区 %d 字节", errBadFrame, diLen+aiLen)
	}

	rest := make([]byte, diLen+aiLen+rigTrailerLen)
	if _, err := io.ReadFull(conn, rest); err != nil {
		return RigSnapshot{}, err
	}
	return parseRigFrame(append(header, rest...))
}

// parseRigFrame 校验并解析一帧井场数据
func parseRigFrame(frame []byte) (RigSnapshot, error) {
	if len(frame) < rigHeaderLen+rigTrailerLen {
		return RigSnapshot{}, fmt.Errorf("%w: 帧长 %d", errBadFrame, len(frame))
	}
	if frame[0] != 0x40 || frame[1] != 0x01 {
		return RigSnapshot{}, fmt.Errorf("%w: 起始符 % X", errBadFrame, frame[:2])
	}

	diLen := int(binary.BigEndian.Uint16(frame[12:14]))
	aiLen := int(binary.BigEndian.Uint16(frame[14:16]))
	if len(frame) != rigHeaderLen+diLen+aiLen+rigTrailerLen {
		return RigSnapshot{}, fmt.Errorf("%w: 帧长 %d 与数据区不符", errBadFrame, len(frame))
	}
	if aiLen < rigAICount*4 {
		return RigSnapshot{}, fmt.Errorf("%w: AI 点位不足 (%d 字节)", errBadFrame, aiLen)
	}

	body := frame[:rigHeaderLen+diLen+aiLen]
	var sum uint16
	for _, b := range body {
		sum += uint16(b)
	}
	if frame[len(frame)-4] != 0x01 || frame[len(frame)-3] != byte(sum&0xFF) {
		return RigSnapshot{}, fmt.Errorf("%w: 校验和不符", errBadFrame)
	}
	if frame[len(frame)-2] != 0x0D || frame[len(frame)-1] != 0x0A {
		return RigSnapshot{}, fmt.Errorf("%w: 结束符缺失", errBadFrame)
	}

	ai := make([]float64, rigAICount)
	base := rigHeaderLen + diLen
	for i := range ai {
		bits := binary.LittleEndian.Uint32(frame[base+i*4:])
		ai[i] = float64(math.Float32frombits(bits))
	}

	return RigSnapshot{
		BitDepth:      ai[aiBitDepth],
		BlockPosition: ai[aiBlockPosition],
		TripTankM3:    ai[aiTripTank],
		ActiveTankM3:  ai[aiActiveTank],
		SABPKPa:       ai[aiSABP],
		StandpipeKPa:  ai[aiStandpipe],
		FlowM3PerMin:  flowM3PerHourToMin(ai[aiFlow]),
		DensityKgM3:   densityToKgM3(ai[aiDensity]),
		UpdatedAt:     time.Now(),
	}, nil
}
