package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net"
	"time"
)

const (
	PORT     = ":4001"
	DI_COUNT = 16 // 协议中 DI 点位数量：泵冲开关、防喷器状态等
	AI_COUNT = 8  // 协议中 AI 点位数量 (0 ~ 7)
)

func main() {
	listener, err := net.Listen("tcp", PORT)
	if err != nil {
		log.Fatal("监听失败:", err)
	}
	defer listener.Close()
	fmt.Println("井场传感器模拟器启动，监听端口 4001...")

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Println("接受连接失败:", err)
			continue
		}
		go handleConnection(conn)
	}
}

// handleConnection 持续处理来自一个客户端的多个请求
func handleConnection(conn net.Conn) {
	defer func() {
		conn.Close()
	}()

	for {
		// 5 秒内没收到轮询指令就认为客户端已断开
		err := conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err != nil {
			log.Println("设置读取超时失败:", err)
			return
		}

		buf := make([]byte, 1024)
		n, err := conn.Read(buf)
		if err != nil {
			log.Println("读取数据失败 (客户端可能已断开):", err)
			return
		}

		err = conn.SetReadDeadline(time.Time{})
		if err != nil {
			log.Println("取消读取超时失败:", err)
			return
		}

		// 校验收到的指令
		expected := []byte{0x40, 0xFF, 0x00, 0x00, 0x0D, 0x0A}
		if n < len(expected) || !bytes.Equal(buf[:len(expected)], expected) {
			log.Printf("收到非法指令: % X", buf[:n])
			continue
		}

		response := prepareResponse()
		_, err = conn.Write(response)
		if err != nil {
			log.Println("发送数据失败:", err)
			return
		}
	}
}

// prepareResponse 生成一条符合协议的模拟数据
func prepareResponse() []byte {
	var response bytes.Buffer

	// 1. 起始符 (2 bytes)
	response.Write([]byte{0x40, 0x01})

	// 2. 备用字符 (10 bytes)
	response.Write(make([]byte, 10))

	// 3. DI 字节数 (2 bytes, 大端序)
	diByteLen := uint16((DI_COUNT + 7) / 8) // 16 bits = 2 bytes
	binary.Write(&response, binary.BigEndian, diByteLen)

	// 4. AI 字节数 (2 bytes, 大端序)
	aiByteLen := uint16(AI_COUNT * 4)
	binary.Write(&response, binary.BigEndian, aiByteLen)

	// 5. DI 数据（全 0）
	response.Write(make([]byte, diByteLen))

	// 6. AI 数据（序号 0~7，小端序）
	noisy := func(base float32) float32 {
		return base + (rand.Float32()-0.5)*base*0.05 // ±5% 波动
	}
	now := float64(time.Now().UnixMilli()) / 1000

	ai := make([]float32, AI_COUNT)
	ai[0] = float32(1500 - 30*math.Sin(now/60)) // 钻头测深 (m)，缓慢起钻
	ai[1] = float32(14 + 14*math.Sin(now/8))    // 游车位置 (m)，周期往复
	ai[2] = noisy(12.5)                         // 起下钻罐液量 (m³)
	ai[3] = noisy(95)                           // 活动罐液量 (m³)
	ai[4] = noisy(310)                          // 套压 (kPa)
	ai[5] = noisy(80)                           // 立压 (kPa)
	ai[6] = noisy(24)                           // 出口流量 (m³/h)
	ai[7] = noisy(1.18)                         // 泥浆密度 (t/m³)

	var aiBuf bytes.Buffer
	for _, v := range ai {
		binary.Write(&aiBuf, binary.LittleEndian, v)
	}
	response.Write(aiBuf.Bytes())

	// 7. 校验和（高字节=1，低字节=sum & 0xFF）
	data := response.Bytes()
	var sum uint16
	for _, b := range data {
		sum += uint16(b)
	}
	response.Write([]byte{0x01, byte(sum & 0xFF)})

	// 8. 结束符
	response.Write([]byte{0x0D, 0x0A})

	return response.Bytes()
}
