package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	fsshttp "github.com/mctech-dev/fss-go/http"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewPutCommand returns a command that uploads a local file
func NewPutCommand() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "put FILE [KEY]",
		Short: "Upload a file",
		Args:  cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {

			fileName := args[0]
			key := filepath.Base(fileName)
			if len(args) == 2 {
				key = args[1]
			}

			contentType, _ := cmd.Flags().GetString("content-type")
			pairs, _ := cmd.Flags().GetStringArray("meta")
			metadata, err := parsePairs(pairs)
			if err != nil {
				fatal(err)
			}

			f, err := os.Open(fileName)
			if err != nil {
				fatal(err)
			}
			defer f.Close()

			options := []fsshttp.PutOption{
				fsshttp.WithFileName(fileName),
				fsshttp.WithMetadata(metadata),
			}
			if contentType != "" {
				options = append(options, fsshttp.WithContentType(contentType))
			}
			if info, err := f.Stat(); err == nil && info.Size() > 0 {
				options = append(options, fsshttp.WithContentLength(info.Size()))
			}

			client := getClient()
			resp, err := client.Put(context.Background(), key, f, options...)
			if err != nil {
				fatal(err)
			}
			resp.Close()

			logger.WithFields(logrus.Fields{
				"bucket": client.Bucket(),
				"key":    key,
				"status": resp.StatusCode,
			}).Info("uploaded")
			fmt.Println(client.ObjectURL(key))
		},
	}

	cmd.Flags().String("content-type", "", "Content type of the object")
	cmd.Flags().StringArray("meta", nil, "User metadata as name=value, may be repeated")

	return cmd
}

// NewGetCommand returns a command that downloads an object
func NewGetCommand() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Download an object to stdout or a file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {

			output, _ := cmd.Flags().GetString("output")

			resp, err := getClient().Get(context.Background(), args[0])
			if err != nil {
				fatal(err)
			}
			defer resp.Close()

			var w io.Writer = os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					fatal(err)
				}
				defer f.Close()
				w = f
			}

			n, err := io.Copy(w, resp.Body)
			if err != nil {
				fatal(err)
			}
			logger.WithFields(logrus.Fields{
				"key":   args[0],
				"bytes": n,
			}).Debug("downloaded")
		},
	}

	cmd.Flags().StringP("output", "o", "", "Write the object to this file")

	return cmd
}

// NewHeadCommand returns a command that shows the user metadata of an object
func NewHeadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "head KEY",
		Short: "Show the user metadata of an object",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			meta, err := getClient().Head(context.Background(), args[0])
			if err != nil {
				fatal(err)
			}
			printJSON(meta.Meta)
		},
	}
}

// NewMetaCommand returns a command that shows every header of an object
func NewMetaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "meta KEY",
		Short: "Show the response headers of an object",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			headers, err := getClient().ObjectMetadata(context.Background(), args[0])
			if err != nil {
				fatal(err)
			}
			printJSON(headers)
		},
	}
}

// NewDeleteCommand returns a command that removes objects
func NewDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY...",
		Short: "Delete objects",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			client := getClient()
			for _, key := range args {
				if err := client.Delete(context.Background(), key); err != nil {
					var reqErr *fsshttp.RequestError
					if errors.As(err, &reqErr) {
						logger.WithFields(logrus.Fields{
							"key":    key,
							"status": reqErr.StatusCode,
							"code":   reqErr.Code(),
						}).Error(reqErr.Error())
					}
					fatal(err)
				}
				logger.WithField("key", key).Info("deleted")
			}
		},
	}
}

// NewCopyCommand returns a command that copies an object inside the bucket
func NewCopyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "copy FROM [TO]",
		Short: "Copy an object; TO defaults to a random key with the same extension",
		Args:  cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {
			from := args[0]
			to := uuid.NewV4().String() + path.Ext(from)
			if len(args) == 2 {
				to = args[1]
			}

			resp, err := getClient().Copy(context.Background(), to, from)
			if err != nil {
				fatal(err)
			}
			resp.Close()
			fmt.Println(to)
		},
	}
}
