package cmd

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ipchama/dhcpopt/config"
	"github.com/ipchama/dhcpopt/hammer"
	"github.com/ipchama/dhcpopt/option"
	"github.com/ipchama/dhcpopt/socketeer"
)

func prepareProbeCmd(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().Bool("handshake", false, "Answer offers with a REQUEST so ACK options are seen too.")
	cmd.Flags().Bool("dhcp-broadcast", true, "Set the broadcast bit.")
	cmd.Flags().Bool("ethernet-broadcast", true, "Use ethernet broadcasting.")

	cmd.Flags().Int("rps", 0, "Max number of packets per second. 0 == unlimited.")
	cmd.Flags().Int("maxlife", 0, "How long to run in seconds. 0 == forever")
	cmd.Flags().Int("mac-count", 1, "Number of unique MAC addresses to pre-generate.")
	cmd.Flags().StringArray("mac", []string{}, "MAC address to probe with. Can be used multiple times.")

	cmd.Flags().Int("stats-rate", 5, "How frequently to update stat calculations. (seconds).")

	cmd.Flags().String("relay-source-ip", "", "Source IP for relayed requests.  relay-source-ip AND relay-target-server-ip must be set for relay mode.")
	cmd.Flags().String("relay-gateway-ip", "", "Gateway (giaddr) IP for relayed requests.  If not set, it will default to the relay source IP.")
	cmd.Flags().String("relay-target-server-ip", "", "Target/Destination IP for relayed requests.  relay-source-ip AND relay-target-server-ip must be set for relay mode.")
	cmd.Flags().Int("target-port", 67, "Target port for special cases.  Rarely would you want to use this.")

	cmd.Flags().StringArray("dhcp-option", []string{}, "Option to send in every DISCOVER. Can be used multiple times. Format: <name or code>=<value>")
	cmd.Flags().String("option-set", "", "YAML file of options to send in every DISCOVER.")
	cmd.Flags().String("request", "", "Parameter request list, e.g. subnet-mask,router,6. Defaults to what dhclient asks for.")

	cmd.Flags().String("interface", "eth0", "Interface name for listening and sending.")
	cmd.Flags().String("gateway-mac", "", "MAC of the gateway. Looked up through the default route when empty.")
	cmd.Flags().Bool("promisc", false, "Turn on promiscuous mode for the listening interface.")

	cmd.Flags().String("api-address", "", "IP for the API server to listen on.")
	cmd.Flags().Int("api-port", 8080, "Port for the API server to listen on.")

	return cmd
}

// probeOptions turns the probe flags into hammer and socketeer options.
// The gateway MAC is left nil when not given.
func probeOptions(flags *pflag.FlagSet) (*config.DhcpV4Options, *config.SocketeerOptions, error) {
	options := &config.DhcpV4Options{}
	socketeerOptions := &config.SocketeerOptions{}

	var err error
	var relayIP, relayGatewayIP, targetServerIP, gatewayMAC, optionSet, request string
	var extra []string

	// The first lookup error sticks.
	getBool := func(name string, dst *bool) {
		if err == nil {
			*dst, err = flags.GetBool(name)
		}
	}
	getInt := func(name string, dst *int) {
		if err == nil {
			*dst, err = flags.GetInt(name)
		}
	}
	getString := func(name string, dst *string) {
		if err == nil {
			*dst, err = flags.GetString(name)
		}
	}
	getStrings := func(name string, dst *[]string) {
		if err == nil {
			*dst, err = flags.GetStringArray(name)
		}
	}

	getBool("handshake", &options.Handshake)
	getBool("dhcp-broadcast", &options.DhcpBroadcast)
	getBool("ethernet-broadcast", &options.EthernetBroadcast)

	getInt("rps", &options.RequestsPerSecond)
	getInt("maxlife", &options.MaxLifetime)
	getInt("mac-count", &options.MacCount)
	getStrings("mac", &options.SpecifiedMacs)
	getInt("stats-rate", &options.StatsRate)

	getString("relay-source-ip", &relayIP)
	getString("relay-gateway-ip", &relayGatewayIP)
	getString("relay-target-server-ip", &targetServerIP)
	getInt("target-port", &options.TargetPort)

	getStrings("dhcp-option", &extra)
	getString("option-set", &optionSet)
	getString("request", &request)

	getString("interface", &socketeerOptions.InterfaceName)
	getString("gateway-mac", &gatewayMAC)
	getBool("promisc", &socketeerOptions.PromiscuousMode)

	if err != nil {
		return nil, nil, err
	}

	if optionSet != "" {
		opts, err := config.LoadOptionSet(optionSet)
		if err != nil {
			return nil, nil, err
		}
		options.Options = append(options.Options, opts...)
	}

	opts, err := config.ParseOptionFlags(extra)
	if err != nil {
		return nil, nil, err
	}
	options.Options = append(options.Options, opts...)

	if request != "" {
		o, err := option.Parse(option.CodeParameterRequestList, request)
		if err != nil {
			return nil, nil, errors.Wrap(err, "--request")
		}
		options.ParameterRequestList = o.(option.ParameterRequestList)
	}

	for _, ip := range []struct {
		flag  string
		value string
		dst   *net.IP
	}{
		{"relay-source-ip", relayIP, &options.RelaySourceIP},
		{"relay-gateway-ip", relayGatewayIP, &options.RelayGatewayIP},
		{"relay-target-server-ip", targetServerIP, &options.RelayTargetServerIP},
	} {
		if ip.value == "" {
			continue
		}
		if *ip.dst = net.ParseIP(ip.value).To4(); *ip.dst == nil {
			return nil, nil, errors.Errorf("--%s: %q is not an IPv4 address", ip.flag, ip.value)
		}
	}

	if options.RelayGatewayIP == nil {
		options.RelayGatewayIP = options.RelaySourceIP
	}

	if options.RelaySourceIP != nil && options.RelayTargetServerIP != nil {
		options.DhcpRelay = true
	}

	if gatewayMAC != "" {
		if socketeerOptions.GatewayMAC, err = net.ParseMAC(gatewayMAC); err != nil {
			return nil, nil, errors.Wrap(err, "--gateway-mac")
		}
	}

	if options.StatsRate <= 0 {
		options.StatsRate = 5
	}

	return options, socketeerOptions, nil
}

func init() {

	rootCmd.AddCommand(prepareProbeCmd(&cobra.Command{
		Use:   "probe",
		Short: "Probe DHCPv4 servers with chosen options.",
		Long: `Send DISCOVERs carrying the chosen options and decode the options of every reply.
Replies are reported on the API under /options and counted under /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {

			options, socketeerOptions, err := probeOptions(cmd.Flags())
			if err != nil {
				return err
			}

			apiAddress, err := cmd.Flags().GetString("api-address")
			if err != nil {
				return err
			}
			apiPort, err := cmd.Flags().GetInt("api-port")
			if err != nil {
				return err
			}

			if socketeerOptions.GatewayMAC == nil {
				if socketeerOptions.GatewayMAC, err = getGatewayV4(socketeerOptions.InterfaceName); err != nil {
					return errors.Wrap(err, "failed to detect gateway MAC, set --gateway-mac")
				}
				log.WithField("gateway_mac", socketeerOptions.GatewayMAC.String()).Info("Detected gateway")
			}

			if socketeerOptions.Filter, err = socketeer.DHCPFilter(); err != nil {
				return errors.Wrap(err, "failed to assemble socket filter")
			}

			h := hammer.New(socketeerOptions, options)

			if err = h.Init(apiAddress, apiPort); err != nil {
				return errors.Wrap(err, "failed to initialize probe")
			}

			osSigChann := make(chan os.Signal, 1)
			signal.Notify(osSigChann, syscall.SIGINT, syscall.SIGTERM)

			go func() {
				<-osSigChann
				log.Info("Signal received, stopping")
				h.Stop()
			}()

			return h.Run()
		},
	}))

}
