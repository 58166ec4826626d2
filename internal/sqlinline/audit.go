package sqlinline

const QInsertDonationAudit = `--sql f3dd7164-f565-481f-9d98-80ec3c761417
insert into donation_audit(donation_id, action, actor_id, payload, occurred_at)
values ($1::uuid, $2::text, nullif($3::text, '')::uuid, coalesce($4::jsonb, '{}'::jsonb), $5::timestamptz);
`

const QPing = `--sql 25446c3d-ecfd-4ed2-b2b1-0684fdccd4c3
select 1;
`

const QSchemaTables = `--sql c4b53e6d-6e4d-4569-885d-16c7ac23b578
select table_name::text
from information_schema.tables
where table_schema = current_schema()
  and table_name = any($1::text[])
order by table_name;
`
