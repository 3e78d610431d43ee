// Package netpacket synthesizes IPv4/IPv6 UDP packets from the
// addresses and timestamps an analysis can recover from log lines, and
// writes them out as a Linux-"cooked"-capture PCAP stream — so a SIP
// dialog reconstructed from text can be opened in a packet analyzer
// exactly like the capture it was generated from.
package netpacket

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
	"strings"
)

const (
	linkTypeLinuxCooked = 0x71
	etherTypeIPv4        = 0x0800
	etherTypeIPv6        = 0x86DD
	protoUDP             = 17
)

// WriteGlobalHeader writes the PCAP file's 24-byte global header for a
// Linux "cooked" capture link type.
func WriteGlobalHeader(w *bytes.Buffer) {
	var hdr [24]byte
	binary.LittleEndian.PutUint32(hdr[0:4], 0xa1b2c3d4) // magic
	binary.LittleEndian.PutUint16(hdr[4:6], 2)          // version major
	binary.LittleEndian.PutUint16(hdr[6:8], 4)          // version minor
	// thiszone, sigfigs left zero
	binary.LittleEndian.PutUint32(hdr[16:20], 65535) // snaplen
	binary.LittleEndian.PutUint32(hdr[20:24], linkTypeLinuxCooked)
	w.Write(hdr[:])
}

// writeFrame writes one packet record: the per-packet header, the
// Linux "cooked" pseudo-link header, then the IP+UDP+payload bytes.
func writeFrame(w *bytes.Buffer, etherType uint16, timestampMs int64, ipAndPayload []byte) {
	sec := timestampMs / 1000
	usec := (timestampMs % 1000) * 1000
	totalLen := 16 + len(ipAndPayload) // 16-byte cooked header

	var pktHdr [16]byte
	binary.LittleEndian.PutUint32(pktHdr[0:4], uint32(sec))
	binary.LittleEndian.PutUint32(pktHdr[4:8], uint32(usec))
	binary.LittleEndian.PutUint32(pktHdr[8:12], uint32(totalLen))
	binary.LittleEndian.PutUint32(pktHdr[12:16], uint32(totalLen))
	w.Write(pktHdr[:])

	var cooked [16]byte
	binary.BigEndian.PutUint16(cooked[0:2], 0)  // packet_type
	binary.BigEndian.PutUint16(cooked[2:4], 1)  // arphrd_type: ethernet
	binary.BigEndian.PutUint16(cooked[4:6], 6)  // address_len
	cooked[6] = 0x08
	cooked[7] = 0x00
	cooked[8] = 0x08
	binary.BigEndian.PutUint16(cooked[14:16], etherType)
	w.Write(cooked[:])

	w.Write(ipAndPayload)
}

// ipChecksum computes the RFC 1071 one's-complement checksum over data.
func ipChecksum(data []byte) uint16 {
	var sum uint32
	n := len(data)
	for i := 0; i+1 < n; i += 2 {
		sum += uint32(data[i])<<8 | uint32(data[i+1])
	}
	if n%2 == 1 {
		sum += uint32(data[n-1]) << 8
	}
	for sum>>16 != 0 {
		sum = (sum & 0xffff) + (sum >> 16)
	}
	return ^uint16(sum)
}

func splitHostPort(address string) (string, uint16, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return "", 0, err
	}
	return host, uint16(port), nil
}

// WriteIPv4 appends one synthetic UDP/IPv4 packet carrying payload.
// Addresses are "host:port" pairs, e.g. "10.0.0.1:5060".
func WriteIPv4(w *bytes.Buffer, srcAddress, dstAddress string, timestampMs int64, payload []byte) error {
	srcHost, srcPort, err := splitHostPort(srcAddress)
	if err != nil {
		return fmt.Errorf("netpacket: src address %q: %w", srcAddress, err)
	}
	dstHost, dstPort, err := splitHostPort(dstAddress)
	if err != nil {
		return fmt.Errorf("netpacket: dst address %q: %w", dstAddress, err)
	}
	srcIP := net.ParseIP(srcHost).To4()
	dstIP := net.ParseIP(dstHost).To4()
	if srcIP == nil || dstIP == nil {
		return fmt.Errorf("netpacket: not an IPv4 address pair (%q, %q)", srcAddress, dstAddress)
	}

	const ipHdrLen = 20
	const udpHdrLen = 8

	ip := make([]byte, ipHdrLen)
	ip[0] = 0x45 // version 4, header length 5 words
	ip[1] = 0    // tos
	binary.BigEndian.PutUint16(ip[2:4], uint16(ipHdrLen+udpHdrLen+len(payload)))
	// id=0
	binary.BigEndian.PutUint16(ip[6:8], 0x4000) // don't fragment
	ip[8] = 128                                 // ttl
	ip[9] = protoUDP
	// checksum filled below
	copy(ip[12:16], srcIP)
	copy(ip[16:20], dstIP)
	binary.BigEndian.PutUint16(ip[10:12], ipChecksum(ip))

	udp := make([]byte, udpHdrLen)
	binary.BigEndian.PutUint16(udp[0:2], srcPort)
	binary.BigEndian.PutUint16(udp[2:4], dstPort)
	binary.BigEndian.PutUint16(udp[4:6], uint16(udpHdrLen+len(payload)))
	udp[6], udp[7] = 0, 0 // UDP checksum over IPv4 is optional; left zero

	frame := make([]byte, 0, ipHdrLen+udpHdrLen+len(payload))
	frame = append(frame, ip...)
	frame = append(frame, udp...)
	frame = append(frame, payload...)

	writeFrame(w, etherTypeIPv4, timestampMs, frame)
	return nil
}

// WriteIPv6 appends one synthetic UDP/IPv6 packet. Addresses are
// "[host]:port" pairs, e.g. "[::1]:5060".
func WriteIPv6(w *bytes.Buffer, srcAddress, dstAddress string, timestampMs int64, payload []byte) error {
	if !strings.HasPrefix(srcAddress, "[") || !strings.HasPrefix(dstAddress, "[") {
		return fmt.Errorf("netpacket: IPv6 address must be [host]:port, got %q / %q", srcAddress, dstAddress)
	}
	srcHost, srcPort, err := splitHostPort(srcAddress)
	if err != nil {
		return fmt.Errorf("netpacket: src address %q: %w", srcAddress, err)
	}
	dstHost, dstPort, err := splitHostPort(dstAddress)
	if err != nil {
		return fmt.Errorf("netpacket: dst address %q: %w", dstAddress, err)
	}
	srcIP := net.ParseIP(srcHost).To16()
	dstIP := net.ParseIP(dstHost).To16()
	if srcIP == nil || dstIP == nil {
		return fmt.Errorf("netpacket: not an IPv6 address pair (%q, %q)", srcAddress, dstAddress)
	}

	const ipHdrLen = 40
	const udpHdrLen = 8

	ip := make([]byte, ipHdrLen)
	ip[0] = 0x60 // version 6, traffic class/flow label zero
	binary.BigEndian.PutUint16(ip[4:6], uint16(udpHdrLen+len(payload)))
	ip[6] = protoUDP
	ip[7] = 0x80 // hop limit
	copy(ip[8:24], srcIP)
	copy(ip[24:40], dstIP)

	udp := make([]byte, udpHdrLen)
	binary.BigEndian.PutUint16(udp[0:2], srcPort)
	binary.BigEndian.PutUint16(udp[2:4], dstPort)
	binary.BigEndian.PutUint16(udp[4:6], uint16(udpHdrLen+len(payload)))

	pseudo := make([]byte, 0, 32+4+len(payload))
	pseudo = append(pseudo, srcIP...)
	pseudo = append(pseudo, dstIP...)
	var lenAndNext [4]byte
	binary.BigEndian.PutUint16(lenAndNext[0:2], uint16(udpHdrLen+len(payload)))
	lenAndNext[3] = protoUDP
	pseudo = append(pseudo, lenAndNext[:]...)
	pseudo = append(pseudo, udp...)
	pseudo = append(pseudo, payload...)
	binary.BigEndian.PutUint16(udp[6:8], ipChecksum(pseudo))

	frame := make([]byte, 0, ipHdrLen+udpHdrLen+len(payload))
	frame = append(frame, ip...)
	frame = append(frame, udp...)
	frame = append(frame, payload...)

	writeFrame(w, etherTypeIPv6, timestampMs, frame)
	return nil
}
