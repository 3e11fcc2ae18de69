package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/fat16go/fat16"
)

// main is an example CLI for inspecting a FAT16 image: listing the root
// directory, printing a file's content, reporting cluster usage, and
// exporting the root directory as CSV.
func main() {
	app := &cli.App{
		Name:  "fat16cat",
		Usage: "inspect a FAT16 disk image",
		Commands: []*cli.Command{
			lsCommand,
			catCommand,
			usageCommand,
			exportCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openVolume(imagePath string) (*fat16.Disk, *fat16.Volume, error) {
	disk, err := fat16.Open(imagePath)
	if err != nil {
		return nil, nil, err
	}

	volume, err := fat16.OpenVolume(disk, 0)
	if err != nil {
		disk.Close()
		return nil, nil, err
	}

	return disk, volume, nil
}

var lsCommand = &cli.Command{
	Name:      "ls",
	Usage:     "list the root directory",
	ArgsUsage: "<image>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("usage: fat16cat ls <image>", 1)
		}

		disk, volume, err := openVolume(c.Args().Get(0))
		if err != nil {
			return err
		}
		defer disk.Close()
		defer volume.Close()

		fmt.Printf("volume %q (oem %q)\n", volume.Label(), volume.OEMName())

		cursor, err := fat16.OpenDir(volume, `\`)
		if err != nil {
			return err
		}
		defer cursor.Close()

		for {
			entry, err := cursor.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			fmt.Printf("%-12s %10d %s\n", entry.Name(), entry.Size(), entry.ModTime().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var catCommand = &cli.Command{
	Name:      "cat",
	Usage:     "print a root-directory file's content",
	ArgsUsage: "<image> <name>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return cli.Exit("usage: fat16cat cat <image> <name>", 1)
		}

		disk, volume, err := openVolume(c.Args().Get(0))
		if err != nil {
			return err
		}
		defer disk.Close()
		defer volume.Close()

		stream, err := fat16.OpenFile(volume, c.Args().Get(1))
		if err != nil {
			return err
		}
		if stream == nil {
			return cli.Exit("file not found", 1)
		}
		defer stream.Close()

		_, err = io.Copy(os.Stdout, stream)
		return err
	},
}

var usageCommand = &cli.Command{
	Name:      "usage",
	Usage:     "print cluster usage summary",
	ArgsUsage: "<image>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("usage: fat16cat usage <image>", 1)
		}

		disk, volume, err := openVolume(c.Args().Get(0))
		if err != nil {
			return err
		}
		defer disk.Close()
		defer volume.Close()

		free := volume.FreeClusters()
		total := volume.TotalDataClusters()
		usage := volume.ClusterUsage()
		fmt.Printf("%d of %d clusters free\n", free, total)
		for i := 0; i < int(total); i++ {
			mark := '.'
			if usage.Get(i) {
				mark = '#'
			}
			fmt.Printf("%c", mark)
			if (i+1)%64 == 0 {
				fmt.Println()
			}
		}
		fmt.Println()
		return nil
	},
}

var exportCommand = &cli.Command{
	Name:      "export",
	Usage:     "export the root directory as CSV to stdout",
	ArgsUsage: "<image>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("usage: fat16cat export <image>", 1)
		}

		disk, volume, err := openVolume(c.Args().Get(0))
		if err != nil {
			return err
		}
		defer disk.Close()
		defer volume.Close()

		return fat16.ExportDirectoryCSV(volume, os.Stdout)
	},
}
