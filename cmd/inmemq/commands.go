package main

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/repository"
)

func newFindCmd(opts *globalOptions) *cobra.Command {
	var (
		sorts  []string
		offset int
		limit  int
		one    bool
	)

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Print the items matching every --where condition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			criteria, err := parseCriteria(s.criteria)
			if err != nil {
				return err
			}

			q := s.repo.Query().Skip(offset)
			for _, criterion := range criteria {
				q.Matches(criterion.Property, criterion.Condition)
			}
			for _, expr := range sorts {
				field, err := parseSort(expr)
				if err != nil {
					return err
				}
				q.Sort(field.Property, field.Order)
			}
			if cmd.Flags().Changed("limit") {
				q.Limit(limit)
			}

			if one {
				item, err := findOne(q, s.cfg.Repository.StrictGet)
				if err != nil {
					return err
				}
				return writeYAML(cmd.OutOrStdout(), item)
			}
			items, err := q.GetAll()
			if err != nil {
				return err
			}
			s.logger.Info("find", "criteria", criteria, "found", len(items))
			return writeYAML(cmd.OutOrStdout(), items)
		},
	}

	cmd.Flags().StringArrayVarP(&sorts, "sort", "s", nil, "sort key as property[:asc|desc] (repeatable)")
	cmd.Flags().IntVar(&offset, "offset", 0, "skip this many results; negative keeps the tail")
	cmd.Flags().IntVar(&limit, "limit", repository.NoLimit, "maximum number of results (-1 for no limit)")
	cmd.Flags().BoolVar(&one, "one", false, "print only the first result")
	return cmd
}

func findOne(q *repository.QueryBuilder, strict bool) (any, error) {
	if strict {
		return q.GetOne()
	}
	return q.GetOneOrNil()
}

// mutationOptions are shared by update and remove.
type mutationOptions struct {
	one     bool
	inPlace bool
	diff    bool
}

func (m *mutationOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&m.one, "one", false, "affect only the first matching item")
	cmd.Flags().BoolVar(&m.inPlace, "in-place", false, "write the result back to the items file")
	cmd.Flags().BoolVar(&m.diff, "diff", false, "print a line diff instead of the resulting file")
}

func newUpdateCmd(opts *globalOptions) *cobra.Command {
	var (
		sets     []string
		mutation mutationOptions
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Assign --set values on the items matching every --where condition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			updates, err := parseUpdates(sets)
			if err != nil {
				return err
			}
			return mutate(cmd, opts, mutation, func(s *session) error {
				criteria, err := parseCriteria(s.criteria)
				if err != nil {
					return err
				}
				if mutation.one {
					return s.repo.UpdateOneByCriteria(criteria, updates)
				}
				return s.repo.UpdateAllItemsByCriteria(criteria, updates)
			})
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "assignment as property=value (repeatable)")
	_ = cmd.MarkFlagRequired("set")
	mutation.register(cmd)
	return cmd
}

func newRemoveCmd(opts *globalOptions) *cobra.Command {
	var mutation mutationOptions

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove the items matching every --where condition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mutate(cmd, opts, mutation, func(s *session) error {
				criteria, err := parseCriteria(s.criteria)
				if err != nil {
					return err
				}
				if mutation.one {
					return s.repo.RemoveOneItemByCriteria(criteria)
				}
				return s.repo.RemoveAllItemsByCriteria(criteria)
			})
		},
	}

	mutation.register(cmd)
	return cmd
}

func mutate(cmd *cobra.Command, opts *globalOptions, m mutationOptions, apply func(*session) error) error {
	s, err := openSession(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	before, err := s.file.marshal()
	if err != nil {
		return err
	}
	if err := apply(s); err != nil {
		return err
	}
	result := s.file.snapshot(s.store)
	after, err := result.marshal()
	if err != nil {
		return err
	}

	if m.inPlace {
		if err := writeItemsFile(opts.itemsPath, result); err != nil {
			return err
		}
		s.logger.Info("items written", "path", opts.itemsPath)
	}

	out := cmd.OutOrStdout()
	if m.diff {
		_, err = io.WriteString(out, lineDiff(string(before), string(after)))
		return err
	}
	if m.inPlace {
		return nil
	}
	_, err = out.Write(after)
	return err
}

func writeYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encode result")
	}
	_, err = w.Write(data)
	return err
}
