package aggregates

// WriteTxOwnership defines who owns write transaction boundaries.
type WriteTxOwnership string

const (
	// WriteTxOwnedByAggregate means aggregate write methods start/manage atomic DB transactions internally.
	WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"
	// WriteTxOwnedBySession means a caller-held unit of work decides when the transaction runs.
	WriteTxOwnedBySession WriteTxOwnership = "session_owned"
)

// ReadPolicy defines how aggregate stores expose reads.
type ReadPolicy string

const (
	// ReadPolicyInvariantScoped allows only reads needed for invariant decisions in write flows.
	ReadPolicyInvariantScoped ReadPolicy = "invariant_scoped_reads"
	// ReadPolicyTableRepoQueries keeps broad read-model queries on table repos.
	ReadPolicyTableRepoQueries ReadPolicy = "table_repo_queries"
)

// Policy describes aggregate-level persistence expectations.
type Policy struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	ReadPolicy       ReadPolicy
	Notes            string
}

// Aggregate is the common marker for aggregate stores.
type Aggregate interface {
	Policy() Policy
}

// RequiresAggregateOwnedTx returns true when write transaction ownership is aggregate-owned.
func (p Policy) RequiresAggregateOwnedTx() bool {
	return p.WriteTxOwnership == WriteTxOwnedByAggregate
}

var ContractStorePolicy = Policy{
	Name:             "Leasing.ContractStore",
	WriteTxOwnership: WriteTxOwnedBySession,
	ReadPolicy:       ReadPolicyTableRepoQueries,
	Notes:            "Contract rows and their owned clauses, signatures, compensations and receipt commit together; contract version is compare-and-set.",
}
