package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/prtgctl/prtg"
)

var (
	groupParent string
	groupLimit  int
	groupOffset int
	groupStdin  bool
)

// groupCmd groups the group subcommands
var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage PRTG groups",
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups with optional filtering",
	RunE:  runGroupList,
}

var groupGetCmd = &cobra.Command{
	Use:   "get [group-id...]",
	Short: "Get detailed information about specific group(s)",
	RunE:  runGroupGet,
}

func init() {
	rootCmd.AddCommand(groupCmd)
	groupCmd.AddCommand(groupListCmd)
	groupCmd.AddCommand(groupGetCmd)

	groupListCmd.Flags().StringVar(&groupParent, "parent", "", "filter by parent group ID")
	groupListCmd.Flags().IntVar(&groupLimit, "limit", 0, "limit number of results (0 = all)")
	groupListCmd.Flags().IntVar(&groupOffset, "offset", 0, "offset for pagination")

	groupGetCmd.Flags().BoolVar(&groupStdin, "stdin", false, "read group IDs from stdin (one per line)")
}

func runGroupList(cmd *cobra.Command, args []string) error {
	if err := initializeApp(); err != nil {
		return err
	}

	logger.Info().Msg("Fetching groups")
	groups, err := operations.ListGroups(cmd.Context(), prtg.ListOptions{
		Parent: groupParent,
		Limit:  groupLimit,
		Offset: groupOffset,
	})
	if err != nil {
		return err
	}

	logger.Info().Int("count", groups.Total()).Msg("Found groups")

	out, err := output.FormatGroups(groups)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runGroupGet(cmd *cobra.Command, args []string) error {
	if err := initializeApp(); err != nil {
		return err
	}

	ids, err := collectIDs(args, groupStdin)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no group IDs provided")
	}

	if len(ids) == 1 {
		group, err := operations.GetGroup(cmd.Context(), ids[0])
		if err != nil {
			return err
		}
		out, err := output.FormatGroup(group)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	groups, err := operations.GetGroupsByIDs(cmd.Context(), ids)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		logger.Warn().Msg("No groups found")
		return nil
	}

	out, err := output.FormatGroups(&prtg.GroupListResponse{Groups: groups})
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
