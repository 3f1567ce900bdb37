package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ipchama/dhcpopt/config"
	"github.com/ipchama/dhcpopt/message"
	"github.com/ipchama/dhcpopt/option"
)

// readHex joins args, or reads in when there are none, and strips
// whitespace and colons before decoding.
func readHex(args []string, in io.Reader) ([]byte, error) {
	text := strings.Join(args, "")
	if len(args) == 0 {
		b, err := io.ReadAll(in)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read input")
		}
		text = string(b)
	}

	text = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':':
			return -1
		}
		return r
	}, text)

	data, err := hex.DecodeString(text)
	if err != nil {
		return nil, errors.Wrap(err, "input is not hex")
	}

	return data, nil
}

func decodeOptions(data []byte, frame bool) ([]option.Option, error) {
	if !frame {
		return option.DecodeAll(data)
	}

	d := message.DHCPv4(gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.Default))
	if d == nil {
		return nil, errors.New("no DHCPv4 message found in frame")
	}

	// Unknown codes are left out, the same as the handler does.
	opts, _, err := message.Options(d)
	if err != nil {
		return nil, err
	}

	return opts, nil
}

func writeOptions(w io.Writer, opts []option.Option, asJSON bool) error {
	entries := make([]option.Entry, len(opts))
	for i, o := range opts {
		entries[i] = option.EntryOf(o)
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.Code, e.Name, e.Value)
	}
	return tw.Flush()
}

func encodeOptions(args []string, file string, end bool) ([]byte, error) {
	var opts []option.Option

	if file != "" {
		fromFile, err := config.LoadOptionSet(file)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fromFile...)
	}

	fromArgs, err := config.ParseOptionFlags(args)
	if err != nil {
		return nil, err
	}
	opts = append(opts, fromArgs...)

	if end {
		opts = append(opts, option.End{})
	}

	return option.EncodeAll(opts...), nil
}

func writeCodes(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME")
	for _, c := range option.Codes() {
		fmt.Fprintf(tw, "%d\t%s\n", uint8(c), c)
	}
	return tw.Flush()
}

func init() {

	decodeCmd := &cobra.Command{
		Use:   "decode [hex...]",
		Short: "Decode a hex options area.",
		Long: `Decode a hex options area, one option per line.  Input comes from the arguments or,
when there are none, from stdin.  Whitespace and colons are ignored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}
			frame, err := cmd.Flags().GetBool("frame")
			if err != nil {
				return err
			}

			data, err := readHex(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			opts, err := decodeOptions(data, frame)
			if err != nil {
				return err
			}

			return writeOptions(cmd.OutOrStdout(), opts, asJSON)
		},
	}
	decodeCmd.Flags().Bool("json", false, "Print options as JSON.")
	decodeCmd.Flags().Bool("frame", false, "Input is a whole ethernet frame carrying a DHCPv4 message.")

	encodeCmd := &cobra.Command{
		Use:   "encode [code=value...]",
		Short: "Encode options to hex.",
		Long: `Encode options to hex.  Codes are option names or numbers, see the codes command.
Options from --file come first, then those given as arguments.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := cmd.Flags().GetString("file")
			if err != nil {
				return err
			}
			end, err := cmd.Flags().GetBool("end")
			if err != nil {
				return err
			}

			data, err := encodeOptions(args, file, end)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
			return err
		},
	}
	encodeCmd.Flags().String("file", "", "YAML option set to encode.")
	encodeCmd.Flags().Bool("end", false, "Terminate the output with the End option.")

	codesCmd := &cobra.Command{
		Use:   "codes",
		Short: "List supported option codes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCodes(cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(decodeCmd, encodeCmd, codesCmd)
}
