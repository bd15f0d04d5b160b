// goveeframe replays captured notification frames, one hex encoded frame
// per line on stdin, and prints the state they leave a device in.
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/kr/pretty"
	"github.com/ngerakines/goveeble"
	"github.com/ngerakines/goveeble/packet"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "goveeframe",
	Short: "Replay captured notification frames against a model",
	Args:  cobra.NoArgs,
	RunE:  replay,
}

func main() {
	rootCmd.Flags().String("model", "H6053", "model the frames came from")
	rootCmd.Flags().BoolP("verbose", "v", false, "print state after every frame")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func replay(cmd *cobra.Command, args []string) error {
	model, _ := cmd.Flags().GetString("model")
	verbose, _ := cmd.Flags().GetBool("verbose")

	device := goveeble.NewDevice("capture", model)

	var scene []packet.Packet

	scanner := bufio.NewScanner(os.Stdin)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		frame, err := hex.DecodeString(strings.ReplaceAll(text, " ", ""))
		if err != nil {
			fmt.Fprintf(os.Stderr, "line %d: %v\n", line, err)
			continue
		}
		if len(frame) == packet.Size {
			var p packet.Packet
			copy(p[:], frame)
			if !p.Valid() {
				fmt.Fprintf(os.Stderr, "line %d: bad checksum\n", line)
			}
			if packet.SceneData.Matches(frame) {
				scene = collectScene(scene, p, line)
				continue
			}
		}
		for _, q := range device.HandleNotification(frame) {
			fmt.Printf("line %d: would send %s\n", line, q)
		}
		if verbose {
			pretty.Println(device.State())
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	pretty.Println(device.State())
	for _, s := range device.Segments() {
		fmt.Printf("segment %d: %# v\n", s.ID, pretty.Formatter(s.State()))
	}
	return nil
}

// collectScene gathers a run of SCENE_DATA chunks and prints the payload
// once the run is complete. Padding in the last chunk is printed too.
func collectScene(run []packet.Packet, p packet.Packet, line int) []packet.Packet {
	if p[1] == 0 {
		run = []packet.Packet{p}
	} else if run != nil {
		run = append(run, p)
	} else {
		fmt.Fprintf(os.Stderr, "line %d: scene chunk without a first chunk\n", line)
		return nil
	}

	if len(run) < int(run[0][3]) {
		return run
	}
	payload := packet.ScenePayload(run, packet.SceneCapacity(len(run)))
	fmt.Printf("line %d: scene data, %d chunks: %s\n", line, len(run), hex.EncodeToString(payload))
	return nil
}
