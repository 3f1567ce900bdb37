package socketeer

import (
	"encoding/binary"
	"errors"
	"net"
	"runtime"
	"syscall"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"golang.org/x/sys/unix"

	"github.com/ipchama/dhcpopt/config"
	"github.com/ipchama/dhcpopt/message"
)

// ReadTimeout bounds each receive so the listener notices StopListener on a
// quiet interface.
const ReadTimeout = 250 * time.Millisecond

// RawSocketeer reads and writes whole ethernet frames on one interface
// through an AF_PACKET socket.
type RawSocketeer struct {
	socketFd      int
	IfInfo        *net.Interface
	outputChannel chan []byte

	options *config.SocketeerOptions

	addLog   func(string) bool
	addError func(error) bool

	handleMessage func(msg message.Message) bool

	finishChannel chan struct{}
	doneChannel   chan struct{}
	writerDone    chan struct{}
}

func NewRawSocketeer(o *config.SocketeerOptions, logFunc func(string) bool, errFunc func(error) bool) *RawSocketeer {

	s := RawSocketeer{
		socketFd:      -1,
		options:       o,
		addLog:        logFunc,
		addError:      errFunc,
		outputChannel: make(chan []byte),
		finishChannel: make(chan struct{}, 1),
		doneChannel:   make(chan struct{}, 1),
		writerDone:    make(chan struct{}),
	}

	return &s
}

func (s *RawSocketeer) SetReceiver(receiverFunc func(msg message.Message) bool) {
	s.handleMessage = receiverFunc
}

func (s *RawSocketeer) Options() config.SocketeerOptions {
	return *s.options
}

// Init opens and binds the socket. On error nothing is left open.
func (s *RawSocketeer) Init() error {
	var err error

	if s.socketFd, err = syscall.Socket(syscall.AF_PACKET, syscall.SOCK_RAW, syscall.ETH_P_ALL); err != nil {
		s.socketFd = -1
		return err
	}

	if err = s.setup(); err != nil {
		_ = syscall.Close(s.socketFd)
		s.socketFd = -1
		return err
	}

	return nil
}

func (s *RawSocketeer) setup() error {
	var err error

	tv := unix.NsecToTimeval(ReadTimeout.Nanoseconds())
	if err = unix.SetsockoptTimeval(s.socketFd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		return err
	}

	if s.options.Filter != nil {
		if err = unix.SetsockoptSockFprog(s.socketFd, unix.SOL_SOCKET, unix.SO_ATTACH_FILTER, s.options.Filter); err != nil {
			return err
		}
		s.addLog("Attached socket filter to " + s.options.InterfaceName + ".")
	}

	if s.IfInfo, err = net.InterfaceByName(s.options.InterfaceName); err != nil {
		return err
	}

	protocolBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(protocolBytes, syscall.ETH_P_ALL)
	protocol := binary.LittleEndian.Uint16(protocolBytes)

	var haddr [8]byte
	copy(haddr[:], s.IfInfo.HardwareAddr)
	addr := syscall.SockaddrLinklayer{
		Protocol: protocol,
		Ifindex:  s.IfInfo.Index,
		Halen:    uint8(len(s.IfInfo.HardwareAddr)),
		Addr:     haddr,
	}

	if err = syscall.Bind(s.socketFd, &addr); err != nil {
		return err
	}

	if s.options.PromiscuousMode {
		if err = syscall.SetLsfPromisc(s.options.InterfaceName, true); err != nil {
			return err
		}
	}

	return nil
}

// DeInit closes the socket. Call it only once the listener and writer have
// stopped.
func (s *RawSocketeer) DeInit() error {
	var err error

	if s.options.PromiscuousMode {
		err = syscall.SetLsfPromisc(s.options.InterfaceName, false)
	}

	if s.socketFd >= 0 {
		if cerr := syscall.Close(s.socketFd); err == nil {
			err = cerr
		}
		s.socketFd = -1
	}

	return err
}

func (s *RawSocketeer) RunListener() {

	data := make([]byte, 4096)

	for {

		select {
		case <-s.finishChannel:
			close(s.doneChannel)
			return
		default:
		}

		read, ifrom, err := syscall.Recvfrom(s.socketFd, data, 0)

		if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EINTR) {
			// Timed out, look at finishChannel again.
			continue
		} else if err != nil {
			s.addError(err)
			continue
		} else if sll, ok := ifrom.(*syscall.SockaddrLinklayer); ok && sll.Pkttype == syscall.PACKET_OUTGOING {
			runtime.Gosched()
			continue
		} else if read == 0 {
			runtime.Gosched()
			continue
		}

		// The buffer is reused, so the packet gets its own copy.
		frame := make([]byte, read)
		copy(frame, data[:read])

		s.handleMessage(newMessage(gopacket.NewPacket(frame, layers.LayerTypeEthernet, gopacket.Lazy)))
	}

}

func newMessage(p gopacket.Packet) message.Message {
	msg := message.Message{Packet: p}

	if ip, ok := p.Layer(layers.LayerTypeIPv4).(*layers.IPv4); ok {
		msg.RemoteAddress = ip.SrcIP
	}

	if udp, ok := p.Layer(layers.LayerTypeUDP).(*layers.UDP); ok {
		msg.RemotePort = int(udp.SrcPort)
	}

	return msg
}

func (s *RawSocketeer) RunWriter() {

	defer close(s.writerDone)

	var payload []byte

	for ok := true; ok; {
		if payload, ok = <-s.outputChannel; ok {
			if _, err := syscall.Write(s.socketFd, payload); err != nil {
				s.addError(err)
			}
		}
	}
}

// StopListener blocks until RunListener has returned, at most one
// ReadTimeout after the last frame.
func (s *RawSocketeer) StopListener() error {
	s.finishChannel <- struct{}{}
	<-s.doneChannel
	return nil
}

// StopWriter blocks until every queued payload is written and RunWriter
// has returned.
func (s *RawSocketeer) StopWriter() error {
	close(s.outputChannel)
	<-s.writerDone
	return nil
}

func (s *RawSocketeer) AddPayload(payload []byte) bool {
	s.outputChannel <- payload
	return true
}
