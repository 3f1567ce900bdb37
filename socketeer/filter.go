package socketeer

import (
	"golang.org/x/net/bpf"
	"golang.org/x/sys/unix"
)

// DHCPFilterProgram accepts unfragmented IPv4 UDP frames with 67 or 68 as
// either port, which covers direct and relayed DHCP traffic.
func DHCPFilterProgram() []bpf.Instruction {
	return []bpf.Instruction{
		bpf.LoadAbsolute{Off: 12, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: unix.ETH_P_IP, SkipFalse: 12},
		bpf.LoadAbsolute{Off: 23, Size: 1},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: unix.IPPROTO_UDP, SkipFalse: 10},
		bpf.LoadAbsolute{Off: 20, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpBitsSet, Val: 0x1fff, SkipTrue: 8},
		bpf.LoadMemShift{Off: 14},
		bpf.LoadIndirect{Off: 14, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: 67, SkipTrue: 4},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: 68, SkipTrue: 3},
		bpf.LoadIndirect{Off: 16, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: 67, SkipTrue: 1},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: 68, SkipFalse: 1},
		bpf.RetConstant{Val: 0x40000},
		bpf.RetConstant{Val: 0},
	}
}

// DHCPFilter assembles DHCPFilterProgram for SO_ATTACH_FILTER.
func DHCPFilter() (*unix.SockFprog, error) {
	raw, err := bpf.Assemble(DHCPFilterProgram())
	if err != nil {
		return nil, err
	}

	filter := make([]unix.SockFilter, len(raw))
	for i, r := range raw {
		filter[i] = unix.SockFilter{Code: r.Op, Jt: r.Jt, Jf: r.Jf, K: r.K}
	}

	return &unix.SockFprog{Len: uint16(len(filter)), Filter: &filter[0]}, nil
}
